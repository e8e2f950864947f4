package impl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

type stubPasswordService struct {
	hashCalls []string
	verifyOK  bool
}

func (s *stubPasswordService) Hash(password string) (string, error) {
	s.hashCalls = append(s.hashCalls, password)
	return "digest:" + password, nil
}

func (s *stubPasswordService) Verify(password, digest string) bool {
	return s.verifyOK && digest == "digest:"+password
}

type stubTokenService struct {
	issueResponse *dto.TokenResponse
	issueErr      error

	issueCalls []struct {
		userID domain.UserID
		ip     string
		ua     string
	}
	revoked []domain.SessionID
}

func (s *stubTokenService) Issue(ctx context.Context, user *domain.User, ip, ua string) (*dto.TokenResponse, error) {
	s.issueCalls = append(s.issueCalls, struct {
		userID domain.UserID
		ip     string
		ua     string
	}{userID: user.ID, ip: ip, ua: ua})
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return s.issueResponse, nil
}

func (s *stubTokenService) Refresh(ctx context.Context, refreshToken, ip, ua string) (*dto.TokenResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenService) RevokeSession(ctx context.Context, sessionID domain.SessionID) error {
	s.revoked = append(s.revoked, sessionID)
	return nil
}

func (s *stubTokenService) VerifyAccess(ctx context.Context, accessToken string) (domain.UserID, domain.SessionID, error) {
	return domain.UserID{}, domain.SessionID{}, errors.New("not implemented")
}

func TestRegisterProvisionsSecretAndKeypair(t *testing.T) {
	ms := newMemoryStore()
	ps := &stubPasswordService{}
	svc := &AuthServiceImpl{Store: ms, PasswordService: ps}

	ctx := context.Background()
	user, err := svc.Register(ctx, dto.RegisterRequest{
		Name:     "Example User",
		Email:    "Foo@ExAMPle.CoM",
		Password: "foobar",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	// Provisioning happens inside creation: secret and keypair are in place
	// with no separate step required of the caller.
	if user.OTPSecret == "" {
		t.Fatalf("otp_secret not provisioned at creation")
	}
	if user.PublicKey == "" || user.PrivateKey == "" {
		t.Fatalf("keypair not provisioned at creation")
	}
	if !strings.Contains(user.PublicKey, "PUBLIC KEY") || !strings.Contains(user.PrivateKey, "PRIVATE KEY") {
		t.Fatalf("keypair is not PEM encoded")
	}
	if user.TOTPActivated {
		t.Fatalf("totp must not be activated at creation")
	}

	if user.Email != "foo@example.com" {
		t.Fatalf("email not stored lower-case: %q", user.Email)
	}
	stored, ok := ms.userByEmail("foo@example.com")
	if !ok {
		t.Fatalf("user was not persisted")
	}
	if stored.OTPSecret != user.OTPSecret {
		t.Fatalf("persisted secret differs from returned secret")
	}
	if len(ps.hashCalls) != 1 || ps.hashCalls[0] != "foobar" {
		t.Fatalf("password hash not invoked with provided password: %v", ps.hashCalls)
	}
}

func TestRegisterValidations(t *testing.T) {
	svc := &AuthServiceImpl{Store: newMemoryStore(), PasswordService: &stubPasswordService{}}
	ctx := context.Background()

	longName := strings.Repeat("a", 65)
	longEmail := strings.Repeat("a", 257) + "@example.com"

	cases := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{name: "missing name", req: dto.RegisterRequest{Email: "a@example.com", Password: "foobar"}, want: ErrNameRequired},
		{name: "blank name", req: dto.RegisterRequest{Name: "   ", Email: "a@example.com", Password: "foobar"}, want: ErrNameRequired},
		{name: "long name", req: dto.RegisterRequest{Name: longName, Email: "a@example.com", Password: "foobar"}, want: ErrNameLength},
		{name: "missing email", req: dto.RegisterRequest{Name: "A", Password: "foobar"}, want: ErrEmailRequired},
		{name: "long email", req: dto.RegisterRequest{Name: "A", Email: longEmail, Password: "foobar"}, want: ErrEmailLength},
		{name: "blank password", req: dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "      "}, want: ErrEmptyPassword},
		{name: "short password", req: dto.RegisterRequest{Name: "A", Email: "a@example.com", Password: "fooba"}, want: ErrPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterEmailFormat(t *testing.T) {
	svc := &AuthServiceImpl{Store: newMemoryStore(), PasswordService: &stubPasswordService{}}
	ctx := context.Background()

	valid := []string{
		"user@example.com", "USER@foo.COM", "A_US-ER@foo.bar.org",
		"first.last@foo.jp", "alice+bob@baz.cn",
	}
	for _, email := range valid {
		if _, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: email, Password: "foobar"}); err != nil {
			t.Fatalf("%q should be a valid address, got %v", email, err)
		}
	}

	invalid := []string{
		"user@example,com", "user_at_foo.org", "user.name@example.",
		"foo@bar_baz.com", "foo@bar+baz.com",
	}
	for _, email := range invalid {
		if _, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: email, Password: "foobar"}); !errors.Is(err, ErrEmailFormat) {
			t.Fatalf("%q should be an invalid address, got %v", email, err)
		}
	}
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	ms := newMemoryStore()
	svc := &AuthServiceImpl{Store: ms, PasswordService: &stubPasswordService{}}
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterRequest{Name: "A", Email: "user@example.com", Password: "foobar"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, dto.RegisterRequest{Name: "B", Email: "USER@example.com", Password: "foobar"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for case-variant duplicate, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	ms := newMemoryStore()
	ps := &stubPasswordService{verifyOK: true}
	ts := &stubTokenService{issueResponse: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}}
	svc := &AuthServiceImpl{Store: ms, PasswordService: ps, TService: ts}
	ctx := context.Background()

	user, err := svc.Register(ctx, dto.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "Bob@Example.Com", Password: "hunter22"}, "10.0.0.1", "unit-test")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if resp.AccessToken != "access" || resp.RefreshToken != "refresh" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	if len(ts.issueCalls) != 1 || ts.issueCalls[0].userID != user.ID {
		t.Fatalf("token service issue not invoked correctly: %+v", ts.issueCalls)
	}

	ps.verifyOK = false
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "bob@example.com", Password: "wrong"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "hunter22"}, "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email must not be distinguishable: got %v", err)
	}
}
