package store

import (
	"context"

	"sigmsg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type U2FStore struct{ db *gorm.DB }

func (s *Store) U2FRegistrations() *U2FStore { return &U2FStore{db: s.DB} }

func (u *U2FStore) Create(ctx context.Context, reg *domain.U2FRegistration) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(reg).Error
}

func (u *U2FStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.U2FRegistration, error) {
	var regs []domain.U2FRegistration
	if err := u.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}
