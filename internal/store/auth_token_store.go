package store

import (
	"context"
	"time"

	"sigmsg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthTokenStore struct{ db *gorm.DB }

func (s *Store) AuthTokens() *AuthTokenStore { return &AuthTokenStore{db: s.DB} }

func (a *AuthTokenStore) Create(ctx context.Context, t *domain.AuthToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return a.db.WithContext(ctx).Create(t).Error
}

func (a *AuthTokenStore) GetByHash(ctx context.Context, hash []byte) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if err := a.db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Consume marks the token consumed if and only if it has not been consumed
// yet. The guarded UPDATE is the compare-and-swap that makes the token
// single-use under concurrency: of two racing callers exactly one sees
// consumed=true here, the other false.
func (a *AuthTokenStore) Consume(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tx := a.db.WithContext(ctx).Model(&domain.AuthToken{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// DeleteExpired prunes tokens whose lifetime ended before the cutoff.
func (a *AuthTokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := a.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&domain.AuthToken{})
	return tx.RowsAffected, tx.Error
}
