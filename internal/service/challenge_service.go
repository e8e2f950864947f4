package service

import (
	"context"

	"sigmsg/internal/domain"
	"sigmsg/internal/dto"
)

// ChallengeService verifies second-factor codes. The core only answers
// validity; what to do with a success (activate the factor, sign a message)
// is decided by the distinct boundary operations that consume the returned
// single-use token.
type ChallengeService interface {
	// Challenge verifies code against the user's stored secret. On success it
	// mints a short-lived single-use authentication token. Verifying never
	// consumes or rotates the secret; the call is safe to repeat.
	Challenge(ctx context.Context, userID domain.UserID, code string) (valid bool, token string, err error)

	// ActivateTOTP consumes an authentication token and flips the user's
	// totp_activated flag. The enrollment path of a successful challenge.
	ActivateTOTP(ctx context.Context, userID domain.UserID, token string) error

	// Provisioning returns the otpauth:// URI and a QR PNG for the user's
	// stored secret, for enrolling an authenticator app.
	Provisioning(ctx context.Context, userID domain.UserID) (*dto.ProvisioningResponse, error)
}
