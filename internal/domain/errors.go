package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrNotOwner           = errors.New("not the owner")

	ErrTokenNotFound = errors.New("authentication token not found")
	ErrTokenExpired  = errors.New("authentication token expired")
	ErrTokenConsumed = errors.New("authentication token already consumed")

	ErrProvisioningFailed = errors.New("secret provisioning failed")
)
