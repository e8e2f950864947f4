package domain

import "time"

type Message struct {
	ID            MessageID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        UserID    `gorm:"type:uuid;not null;index:idx_messages_user" json:"userId"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Signature     *string   `gorm:"type:text" json:"signature,omitempty"`
	Authenticated bool      `gorm:"not null;default:false" json:"authenticated"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (Message) TableName() string { return "messages" }
