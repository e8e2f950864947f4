package impl

import (
	"context"
	"testing"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/store"

	"github.com/google/uuid"
)

type memorySessionStore struct {
	sessions map[uuid.UUID]*domain.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (m *memorySessionStore) Create(ctx context.Context, s *domain.Session) error {
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memorySessionStore) GetByRefreshID(ctx context.Context, rid uuid.UUID) (*domain.Session, error) {
	for _, s := range m.sessions {
		if s.RefreshID == rid {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memorySessionStore) Rotate(ctx context.Context, id uuid.UUID, newRefreshID uuid.UUID, expiresAt time.Time, ip, ua string) error {
	s, ok := m.sessions[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	s.RefreshID = newRefreshID
	s.ExpiresAt = expiresAt
	s.IP = ip
	s.UserAgent = ua
	return nil
}

func (m *memorySessionStore) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	s, ok := m.sessions[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	revokedAt := at
	s.RevokedAt = &revokedAt
	return nil
}

func testTokenService(sessions sessionStore) *TokenServiceImpl {
	return &TokenServiceImpl{
		cfg: TokenConfig{
			Issuer:     "sigmsg-test",
			Audience:   "sigmsg-clients",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
			SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		},
		sessions: sessions,
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	ss := newMemorySessionStore()
	svc := testTokenService(ss)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New()}
	resp, err := svc.Issue(ctx, user, "10.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("empty tokens issued: %+v", resp)
	}
	if resp.ExpiresIn != 900 {
		t.Fatalf("unexpected expires_in: %d", resp.ExpiresIn)
	}
	if len(ss.sessions) != 1 {
		t.Fatalf("expected one session row, got %d", len(ss.sessions))
	}

	userID, sessionID, err := svc.VerifyAccess(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("subject mismatch: %v", userID)
	}
	if _, ok := ss.sessions[uuid.UUID(sessionID)]; !ok {
		t.Fatalf("access token not bound to a stored session")
	}
}

func TestVerifyAccessRejects(t *testing.T) {
	svc := testTokenService(newMemorySessionStore())
	ctx := context.Background()

	user := &domain.User{ID: uuid.New()}
	resp, err := svc.Issue(ctx, user, "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Garbage, the refresh token in the access slot, and a token signed with a
	// different key all fail the same way.
	for _, tok := range []string{"", "garbage", resp.RefreshToken} {
		if _, _, err := svc.VerifyAccess(ctx, tok); err == nil {
			t.Fatalf("token %q verified as access token", tok)
		}
	}

	other := testTokenService(newMemorySessionStore())
	other.cfg.SigningKey = []byte("another-signing-key-entirely!!!!")
	foreign, err := other.Issue(ctx, user, "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.VerifyAccess(ctx, foreign.AccessToken); err == nil {
		t.Fatalf("token signed with a foreign key verified")
	}
}

func TestTokenRefreshRotates(t *testing.T) {
	ss := newMemorySessionStore()
	svc := testTokenService(ss)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New()}
	first, err := svc.Issue(ctx, user, "10.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken, "10.0.0.2", "unit-test")
	if err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if second.AccessToken == "" || second.RefreshToken == "" {
		t.Fatalf("empty tokens from refresh: %+v", second)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}

	// The old refresh token points at the retired refresh id and is dead.
	if _, err := svc.Refresh(ctx, first.RefreshToken, "", ""); err == nil {
		t.Fatalf("stale refresh token accepted after rotation")
	}
	// The rotated one still works.
	if _, err := svc.Refresh(ctx, second.RefreshToken, "", ""); err != nil {
		t.Fatalf("rotated refresh token rejected: %v", err)
	}
}

func TestTokenRevokedSession(t *testing.T) {
	ss := newMemorySessionStore()
	svc := testTokenService(ss)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New()}
	resp, err := svc.Issue(ctx, user, "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, sessionID, err := svc.VerifyAccess(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := svc.RevokeSession(ctx, sessionID); err != nil {
		t.Fatalf("revoke returned error: %v", err)
	}
	if _, err := svc.Refresh(ctx, resp.RefreshToken, "", ""); err == nil {
		t.Fatalf("refresh succeeded against a revoked session")
	}
}
