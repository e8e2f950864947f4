package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/observability/metrics"
	"sigmsg/internal/service"
	"sigmsg/internal/signing"
	"sigmsg/internal/store"

	"github.com/google/uuid"
)

type MessageServiceImpl struct {
	Store dataStore

	now func() time.Time
}

var _ service.MessageService = (*MessageServiceImpl)(nil)

func NewMessageServiceImpl(st *store.Store) *MessageServiceImpl {
	return &MessageServiceImpl{
		Store: gormStoreAdapter{store: st},
		now:   time.Now,
	}
}

func (m *MessageServiceImpl) Create(ctx context.Context, userID domain.UserID, r dto.CreateMessageRequest) (*domain.Message, error) {
	if strings.TrimSpace(r.Content) == "" {
		return nil, ErrEmptyContent
	}

	var out *domain.Message
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		now := m.now().UTC()
		msg := &domain.Message{
			ID:            uuid.New(),
			UserID:        userID,
			Content:       r.Content,
			Authenticated: false,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Messages().Create(ctx, msg); err != nil {
			return err
		}
		out = msg
		return nil
	})
	return out, err
}

func (m *MessageServiceImpl) Get(ctx context.Context, userID domain.UserID, id domain.MessageID) (*domain.Message, error) {
	var out *domain.Message
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		msg, err := getOwnedMessage(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		out = msg
		return nil
	})
	return out, err
}

func (m *MessageServiceImpl) List(ctx context.Context, userID domain.UserID) ([]domain.Message, error) {
	var out []domain.Message
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		msgs, err := tx.Messages().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = msgs
		return nil
	})
	return out, err
}

func (m *MessageServiceImpl) Delete(ctx context.Context, userID domain.UserID, id domain.MessageID) error {
	return m.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := getOwnedMessage(ctx, tx, userID, id); err != nil {
			return err
		}
		return tx.Messages().Delete(ctx, id)
	})
}

// AuthenticateAndSign turns a successful second-factor challenge into a
// signed message: the single-use token is consumed (exactly one winner under
// concurrency), the content is signed with the owner's private key, and
// signature + authenticated flag are persisted together. A stale or reused
// token leaves the message untouched.
func (m *MessageServiceImpl) AuthenticateAndSign(ctx context.Context, id domain.MessageID, token string) (*domain.Message, error) {
	result := "success"
	defer func() {
		metrics.MessageSignaturesTotal.WithLabelValues(result).Inc()
	}()

	var out *domain.Message
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		msg, err := tx.Messages().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrMessageNotFound
			}
			return err
		}
		owner, err := tx.Users().GetByID(ctx, msg.UserID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		now := m.now().UTC()
		if err := consumeToken(ctx, tx, owner.ID, token, now); err != nil {
			return err
		}

		sig, err := signing.Sign(owner.PrivateKey, msg.Content)
		if err != nil {
			return err
		}
		if err := tx.Messages().SetSignature(ctx, msg.ID, sig, now); err != nil {
			return err
		}

		msg.Signature = &sig
		msg.Authenticated = true
		msg.UpdatedAt = now
		out = msg
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("message signed", "message_id", out.ID, "user_id", out.UserID)
	return out, nil
}

// VerifySignature recomputes the signature check for the stored content under
// the owner's public key. It never mutates the message; an unsigned message
// simply verifies false.
func (m *MessageServiceImpl) VerifySignature(ctx context.Context, id domain.MessageID) (bool, error) {
	var valid bool
	err := m.Store.WithTx(ctx, func(tx storeTx) error {
		msg, err := tx.Messages().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrMessageNotFound
			}
			return err
		}
		if msg.Signature == nil {
			return nil
		}
		owner, err := tx.Users().GetByID(ctx, msg.UserID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		valid = signing.Verify(owner.PublicKey, msg.Content, *msg.Signature)
		return nil
	})
	return valid, err
}

func getOwnedMessage(ctx context.Context, tx storeTx, userID domain.UserID, id domain.MessageID) (*domain.Message, error) {
	msg, err := tx.Messages().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	if msg.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return msg, nil
}
