package domain

import (
	"time"

	"github.com/google/uuid"
)

// U2FRegistration is the stored hardware-key registration record. The U2F
// ceremony itself is handled by the client; the server only keeps the
// registration material and the signature counter.
type U2FRegistration struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      UserID    `gorm:"type:uuid;not null;index:idx_u2f_registrations_user" json:"userId"`
	Certificate string    `gorm:"type:text;not null" json:"certificate"`
	KeyHandle   string    `gorm:"type:text;not null" json:"keyHandle"`
	PublicKey   string    `gorm:"type:text;not null" json:"publicKey"`
	Counter     uint32    `gorm:"not null;default:0" json:"counter"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (U2FRegistration) TableName() string { return "u2f_registrations" }
