package service

import (
	"context"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

type UserService interface {
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*domain.User, error)
	// Delete removes the user and cascades to everything it owns, returning
	// counts of deleted resources per kind.
	Delete(ctx context.Context, id domain.UserID) (map[string]int64, error)
	ListU2FRegistrations(ctx context.Context, id domain.UserID) ([]domain.U2FRegistration, error)
}
