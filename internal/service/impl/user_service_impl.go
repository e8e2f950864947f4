package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/service"
	"sigmsg/internal/store"
)

type UserServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
}

func NewUserServiceImpl(st *store.Store, passwordService service.PasswordService) *UserServiceImpl {
	return &UserServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
	}
}

func (s *UserServiceImpl) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user *domain.User
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		user = u
		return nil
	})
	return user, err
}

func (s *UserServiceImpl) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		us, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		users = us
		return nil
	})
	return users, err
}

// Update changes name, email or password. The second-factor state and the
// signing keypair are not updatable here: totp_activated only flips through
// the enrollment operation, and the keypair is generated once at creation.
func (s *UserServiceImpl) Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*domain.User, error) {
	var user *domain.User
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if r.Name != nil {
			name := strings.TrimSpace(*r.Name)
			if name == "" {
				return ErrNameRequired
			}
			if len(name) > maxNameLength {
				return ErrNameLength
			}
			u.Name = name
		}
		if r.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*r.Email))
			if email == "" {
				return ErrEmailRequired
			}
			if len(email) > maxEmailLength {
				return ErrEmailLength
			}
			if !emailRe.MatchString(email) {
				return ErrEmailFormat
			}
			if email != u.Email {
				if existing, err := tx.Users().GetByEmail(ctx, email); err == nil && existing != nil {
					return domain.ErrEmailTaken
				} else if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
					return err
				}
				u.Email = email
			}
		}
		if r.Password != nil {
			if strings.TrimSpace(*r.Password) == "" {
				return ErrEmptyPassword
			}
			if len(*r.Password) < minPasswordLength {
				return ErrPasswordLength
			}
			digest, err := s.PasswordService.Hash(*r.Password)
			if err != nil {
				return err
			}
			u.PasswordDigest = digest
		}

		u.UpdatedAt = time.Now().UTC()
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}

func (s *UserServiceImpl) Delete(ctx context.Context, id domain.UserID) (map[string]int64, error) {
	deleted, err := s.Store.DeleteUserData(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted["users"] == 0 {
		return nil, domain.ErrUserNotFound
	}
	slog.Info("user deleted", "user_id", id, "cascade", deleted)
	return deleted, nil
}

func (s *UserServiceImpl) ListU2FRegistrations(ctx context.Context, id domain.UserID) ([]domain.U2FRegistration, error) {
	var regs []domain.U2FRegistration
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		rs, err := tx.U2FRegistrations().ListByUser(ctx, id)
		if err != nil {
			return err
		}
		regs = rs
		return nil
	})
	return regs, err
}
