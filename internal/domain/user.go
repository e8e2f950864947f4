package domain

import "time"

// FactorKind names a second-factor method a user may enable on top of the
// password credential.
type FactorKind string

const (
	FactorTOTP FactorKind = "totp"
	FactorU2F  FactorKind = "u2f"
)

type User struct {
	ID             UserID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	Email          string    `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	PasswordDigest string    `gorm:"type:text;not null" json:"-"`
	TOTPActivated  bool      `gorm:"not null;default:false" json:"totpActivated"`
	OTPSecret      string    `gorm:"type:text;not null" json:"-"`
	U2FActivated   bool      `gorm:"not null;default:false" json:"u2fActivated"`
	PublicKey      string    `gorm:"type:text;not null" json:"publicKey"`
	PrivateKey     string    `gorm:"type:text;not null" json:"-"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// MultiFactorMethods returns the second-factor methods currently activated for
// the user. The empty slice is valid: no second factor enabled.
func (u *User) MultiFactorMethods() []FactorKind {
	var methods []FactorKind
	if u.TOTPActivated {
		methods = append(methods, FactorTOTP)
	}
	if u.U2FActivated {
		methods = append(methods, FactorU2F)
	}
	return methods
}
