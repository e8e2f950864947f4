package domain

import "time"

// AuthToken is a single-use authentication token minted after a successful
// second-factor challenge. Only the SHA-256 hash of the opaque value is stored;
// the raw value travels back to the client once and is never persisted.
type AuthToken struct {
	ID         TokenID    `gorm:"type:uuid;primaryKey" db:"id"`
	UserID     UserID     `gorm:"type:uuid;not null;index:idx_auth_tokens_user" db:"user_id"`
	TokenHash  []byte     `gorm:"type:bytea;uniqueIndex:ux_auth_tokens_hash" db:"token_hash"`
	ExpiresAt  time.Time  `gorm:"not null" db:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at"`
	CreatedAt  time.Time  `gorm:"not null" db:"created_at"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

// Usable reports whether the token can still authorize an action at the given
// instant. It does not consume the token; consumption is a store-level
// compare-and-swap so concurrent callers cannot both win.
func (t *AuthToken) Usable(now time.Time) error {
	if t.ConsumedAt != nil {
		return ErrTokenConsumed
	}
	if now.After(t.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}
