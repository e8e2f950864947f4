package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/observability/metrics"
	"sigmsg/internal/otp"
	"sigmsg/internal/service"
	"sigmsg/internal/signing"
	"sigmsg/internal/store"

	"github.com/google/uuid"
)

const (
	maxNameLength     = 64
	maxEmailLength    = 255
	minPasswordLength = 6
)

var emailRe = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+$`)

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
	}
}

// Register validates the request, then creates the user in one transaction:
// password digest, TOTP secret and RSA keypair are all in place before the
// row is durably saved. If provisioning fails nothing is persisted.
func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*domain.User, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validateRegistration(r); err != nil {
		result = "invalid"
		return nil, err
	}

	var out *domain.User
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		if existing, err := tx.Users().GetByEmail(ctx, r.Email); err == nil && existing != nil {
			return domain.ErrEmailTaken
		} else if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		digest, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return err
		}

		secret, err := otp.GenerateSecret()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
		}
		publicKey, privateKey, err := signing.GenerateKeypair()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrProvisioningFailed, err)
		}

		now := time.Now().UTC()
		u := &domain.User{
			ID:             uuid.New(),
			Name:           r.Name,
			Email:          r.Email,
			PasswordDigest: digest,
			TOTPActivated:  false,
			OTPSecret:      secret,
			U2FActivated:   false,
			PublicKey:      publicKey,
			PrivateKey:     privateKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err // unique email constraint bubbles up
		}
		out = u
		return nil
	})
	if err != nil {
		if result == "success" {
			result = "failure"
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", out.ID)
	return out, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Password == "" {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	var tokens *dto.TokenResponse
	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(r.Email)))
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak whether the email exists
		}
		if !a.PasswordService.Verify(r.Password, user.PasswordDigest) {
			return domain.ErrInvalidCredentials
		}

		tr, err := a.TService.Issue(ctx, user, ip, ua)
		if err != nil {
			return err
		}
		tokens = tr
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}
	return tokens, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, sessionID domain.SessionID) error {
	return a.TService.RevokeSession(ctx, sessionID)
}

func validateRegistration(r dto.RegisterRequest) error {
	if r.Name == "" {
		return ErrNameRequired
	}
	if len(r.Name) > maxNameLength {
		return ErrNameLength
	}
	if r.Email == "" {
		return ErrEmailRequired
	}
	if len(r.Email) > maxEmailLength {
		return ErrEmailLength
	}
	if !emailRe.MatchString(r.Email) {
		return ErrEmailFormat
	}
	if strings.TrimSpace(r.Password) == "" {
		return ErrEmptyPassword
	}
	if len(r.Password) < minPasswordLength {
		return ErrPasswordLength
	}
	return nil
}
