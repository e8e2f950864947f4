package service

import (
	"context"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

type AuthService interface {
	// Register creates the user and provisions its TOTP secret and signing
	// keypair in one transaction. A provisioning failure aborts creation.
	Register(ctx context.Context, r dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, sessionID domain.SessionID) error
}
