package impl

import (
	"errors"
	"fmt"
)

// ErrValidation is the common ancestor of every input validation failure, so
// the transport can map the whole family to 422 with one errors.Is check.
var ErrValidation = errors.New("validation failed")

var (
	ErrNameRequired   = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameLength     = fmt.Errorf("%w: name too long", ErrValidation)
	ErrEmailRequired  = fmt.Errorf("%w: email is required", ErrValidation)
	ErrEmailLength    = fmt.Errorf("%w: email too long", ErrValidation)
	ErrEmailFormat    = fmt.Errorf("%w: email format is invalid", ErrValidation)
	ErrEmptyPassword  = fmt.Errorf("%w: empty password", ErrValidation)
	ErrPasswordLength = fmt.Errorf("%w: password too short", ErrValidation)
	ErrEmptyContent   = fmt.Errorf("%w: message content is required", ErrValidation)
)
