package store

import (
	"context"
	"time"

	"sigmsg/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStore struct{ db *gorm.DB }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s.DB} }

func (m *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return m.db.WithContext(ctx).Create(msg).Error
}

func (m *MessageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var msg domain.Message
	if err := m.db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (m *MessageStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := m.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// SetSignature records the outcome of a successful signing operation.
func (m *MessageStore) SetSignature(ctx context.Context, id uuid.UUID, signature string, at time.Time) error {
	return m.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"signature":     signature,
			"authenticated": true,
			"updated_at":    at,
		}).Error
}

func (m *MessageStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Message{}).Error
}

func (m *MessageStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := m.db.WithContext(ctx).Model(&domain.Message{}).
		Where("user_id = ?", userID).Count(&total).Error
	return total, err
}
