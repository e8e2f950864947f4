package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/observability/metrics"
	"sigmsg/internal/otp"
	"sigmsg/internal/store"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	authTokenBytes = 32
	qrSizePixels   = 256
)

type ChallengeConfig struct {
	TOTPIssuer   string        // issuer label in otpauth:// URIs
	AuthTokenTTL time.Duration // lifetime of minted single-use tokens
}

type ChallengeServiceImpl struct {
	Store dataStore
	Cfg   ChallengeConfig

	now func() time.Time
}

func NewChallengeServiceImpl(st *store.Store, cfg ChallengeConfig) *ChallengeServiceImpl {
	if cfg.AuthTokenTTL <= 0 {
		cfg.AuthTokenTTL = 2 * time.Minute
	}
	return &ChallengeServiceImpl{
		Store: gormStoreAdapter{store: st},
		Cfg:   cfg,
		now:   time.Now,
	}
}

// Challenge verifies the submitted code against the user's stored secret and
// mints a single-use authentication token on success. An invalid code is a
// normal outcome (valid=false, err=nil); only lookup and storage problems
// surface as errors. Nothing about the secret changes on either path, so the
// call is idempotent.
func (c *ChallengeServiceImpl) Challenge(ctx context.Context, userID domain.UserID, code string) (bool, string, error) {
	result := "invalid"
	defer func() {
		metrics.OTPVerificationsTotal.WithLabelValues(result).Inc()
	}()

	var token string
	var valid bool
	err := c.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		// An empty stored secret would violate the provisioning invariant;
		// fail closed rather than crash.
		if !otp.Verify(user.OTPSecret, code, c.now()) {
			return nil
		}
		valid = true

		raw, hash, err := newOpaqueToken()
		if err != nil {
			return err
		}
		now := c.now().UTC()
		if err := tx.AuthTokens().Create(ctx, &domain.AuthToken{
			UserID:    user.ID,
			TokenHash: hash,
			ExpiresAt: now.Add(c.Cfg.AuthTokenTTL),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		token = raw
		return nil
	})
	if err != nil {
		result = "error"
		return false, "", err
	}
	if valid {
		result = "valid"
	}
	return valid, token, nil
}

// ActivateTOTP consumes an authentication token and flips totp_activated.
// A failed or reused token leaves the activation state untouched.
func (c *ChallengeServiceImpl) ActivateTOTP(ctx context.Context, userID domain.UserID, token string) error {
	return c.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		if err := consumeToken(ctx, tx, userID, token, c.now().UTC()); err != nil {
			return err
		}

		if err := tx.Users().SetTOTPActivated(ctx, userID, true); err != nil {
			return err
		}
		slog.Info("totp activated", "user_id", userID)
		return nil
	})
}

func (c *ChallengeServiceImpl) Provisioning(ctx context.Context, userID domain.UserID) (*dto.ProvisioningResponse, error) {
	var out *dto.ProvisioningResponse
	err := c.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		uri, err := otp.ProvisioningURI(otp.ProvisioningParams{
			Secret:      user.OTPSecret,
			AccountName: user.Email,
			Issuer:      c.Cfg.TOTPIssuer,
		})
		if err != nil {
			return err
		}
		png, err := qrcode.Encode(uri, qrcode.Medium, qrSizePixels)
		if err != nil {
			return fmt.Errorf("rendering provisioning qr: %w", err)
		}
		out = &dto.ProvisioningResponse{URI: uri, QRCode: png}
		return nil
	})
	return out, err
}

// newOpaqueToken returns the raw token for the client and the SHA-256 hash
// that gets persisted.
func newOpaqueToken() (raw string, hash []byte, err error) {
	buf := make([]byte, authTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, sum[:], nil
}

// consumeToken resolves the raw token for ownerID and consumes it exactly
// once. The store-level compare-and-swap guarantees a single winner when two
// callers race on the same token.
func consumeToken(ctx context.Context, tx storeTx, ownerID domain.UserID, token string, now time.Time) error {
	result := "consumed"
	defer func() {
		metrics.AuthTokensConsumedTotal.WithLabelValues(result).Inc()
	}()

	if token == "" {
		result = "not_found"
		return domain.ErrTokenNotFound
	}
	sum := sha256.Sum256([]byte(token))
	at, err := tx.AuthTokens().GetByHash(ctx, sum[:])
	if err != nil {
		result = "not_found"
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}
	if at.UserID != ownerID {
		result = "not_found"
		return domain.ErrTokenNotFound // don't reveal tokens of other users
	}
	if err := at.Usable(now); err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			result = "expired"
		} else {
			result = "already_consumed"
		}
		return err
	}
	ok, err := tx.AuthTokens().Consume(ctx, at.ID, now)
	if err != nil {
		result = "error"
		return err
	}
	if !ok {
		// Lost the race: someone else consumed it between the read and the swap.
		result = "already_consumed"
		return domain.ErrTokenConsumed
	}
	return nil
}
