package service

import (
	"context"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

type MessageService interface {
	Create(ctx context.Context, userID domain.UserID, r dto.CreateMessageRequest) (*domain.Message, error)
	Get(ctx context.Context, userID domain.UserID, id domain.MessageID) (*domain.Message, error)
	List(ctx context.Context, userID domain.UserID) ([]domain.Message, error)
	Delete(ctx context.Context, userID domain.UserID, id domain.MessageID) error

	// AuthenticateAndSign consumes a single-use authentication token minted
	// for the message's owner and, on success, signs the message content with
	// the owner's private key and persists signature + authenticated flag.
	// The token is consumed atomically: of two concurrent attempts with the
	// same token exactly one succeeds, the other gets ErrTokenConsumed.
	AuthenticateAndSign(ctx context.Context, id domain.MessageID, token string) (*domain.Message, error)

	// VerifySignature recomputes whether the stored signature matches the
	// message content under the owner's public key. Pure read.
	VerifySignature(ctx context.Context, id domain.MessageID) (bool, error)
}
