package service

import (
	"context"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User, ip, ua string) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken, ip, ua string) (*dto.TokenResponse, error)
	RevokeSession(ctx context.Context, sessionID domain.SessionID) error
	// VerifyAccess validates a bearer access token and returns the subject.
	VerifyAccess(ctx context.Context, accessToken string) (domain.UserID, domain.SessionID, error)
}
