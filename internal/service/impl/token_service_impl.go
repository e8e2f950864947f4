package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
	"sigmsg/internal/netutil"
	"sigmsg/internal/observability/metrics"
	"sigmsg/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SigningKey []byte // HS256 secret
}

type AccessClaims struct {
	SID string `json:"sid"` // session id
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	SID                  string `json:"sid"` // session id
	jwt.RegisteredClaims        // jti == refresh_id
}

// sessionStore is the slice of the store the token service needs; production
// wiring passes the gorm-backed session store.
type sessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByRefreshID(ctx context.Context, rid uuid.UUID) (*domain.Session, error)
	Rotate(ctx context.Context, id uuid.UUID, newRefreshID uuid.UUID, expiresAt time.Time, ip, ua string) error
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
}

type TokenServiceImpl struct {
	cfg      TokenConfig
	sessions sessionStore
}

func NewTokenServiceHS256(cfg TokenConfig, st *store.Store) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, sessions: st.Sessions()}
}

// Issue creates a session row (with a fresh refresh id) and returns
// access+refresh tokens.
func (t *TokenServiceImpl) Issue(ctx context.Context, user *domain.User, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.SessionTokensIssuedTotal.WithLabelValues("issue", result).Inc()
	}()
	ip = normalizeIP(ip)
	ua = netutil.TruncateUserAgent(ua)
	now := time.Now().UTC()

	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		RefreshID: uuid.New(),
		ExpiresAt: now.Add(t.cfg.RefreshTTL),
		CreatedAt: now,
		IP:        ip,
		UserAgent: ua,
	}
	if err := t.sessions.Create(ctx, sess); err != nil {
		result = "failure"
		return nil, err
	}

	access, err := t.signAccess(user.ID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refresh, err := t.signRefresh(user.ID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("issued tokens", "session_id", sess.ID, "user_id", user.ID)

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

// Refresh validates the refresh JWT, checks session state, rotates the
// refresh id, and returns new tokens.
func (t *TokenServiceImpl) Refresh(ctx context.Context, refreshToken, ip, ua string) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.SessionTokensIssuedTotal.WithLabelValues("refresh", result).Inc()
	}()
	ip = normalizeIP(ip)
	ua = netutil.TruncateUserAgent(ua)
	now := time.Now().UTC()

	parsed, claims, err := t.parseRefresh(refreshToken)
	if err != nil || !parsed.Valid {
		result = "failure"
		return nil, errors.New("invalid token")
	}

	rid, err := uuid.Parse(claims.ID)
	if err != nil {
		result = "failure"
		return nil, errors.New("invalid token")
	}
	sess, err := t.sessions.GetByRefreshID(ctx, rid)
	if err != nil {
		result = "failure"
		return nil, errors.New("invalid token")
	}
	if sess.RevokedAt != nil || now.After(sess.ExpiresAt) {
		result = "failure"
		return nil, errors.New("session expired or revoked")
	}

	newRID := uuid.New()
	newExp := now.Add(t.cfg.RefreshTTL)
	if err := t.sessions.Rotate(ctx, sess.ID, newRID, newExp, ip, ua); err != nil {
		result = "failure"
		return nil, err
	}
	sess.RefreshID = newRID
	sess.ExpiresAt = newExp

	accessJWT, err := t.signAccess(sess.UserID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refreshJWT, err := t.signRefresh(sess.UserID, sess, now)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("refreshed tokens", "session_id", sess.ID, "user_id", sess.UserID)

	return &dto.TokenResponse{
		AccessToken:  accessJWT,
		RefreshToken: refreshJWT,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceImpl) RevokeSession(ctx context.Context, sessionID domain.SessionID) error {
	return t.sessions.Revoke(ctx, uuid.UUID(sessionID), time.Now().UTC())
}

// VerifyAccess parses and validates a bearer access token.
func (t *TokenServiceImpl) VerifyAccess(ctx context.Context, accessToken string) (domain.UserID, domain.SessionID, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
	)
	tok, err := parser.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, uuid.Nil, domain.ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrInvalidCredentials
	}
	sessionID, err := uuid.Parse(claims.SID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrInvalidCredentials
	}
	return userID, sessionID, nil
}

func (t *TokenServiceImpl) signAccess(userID uuid.UUID, sess *domain.Session, now time.Time) (string, error) {
	claims := AccessClaims{
		SID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) signRefresh(userID uuid.UUID, sess *domain.Session, now time.Time) (string, error) {
	claims := RefreshClaims{
		SID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sess.RefreshID.String(), // bind JWT to the session row
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) parseRefresh(tokenStr string) (*jwt.Token, *RefreshClaims, error) {
	claims := &RefreshClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tok, claims, nil
}

func normalizeIP(ip string) string {
	if normalized, ok := netutil.NormalizeIP(ip); ok {
		return normalized
	}
	return strings.TrimSpace(ip)
}
