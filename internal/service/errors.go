package service

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when a user id or email does not resolve.
var ErrUserNotFound = errors.New("user not found")

// ErrContactNotFound is returned when a contact id does not resolve.
var ErrContactNotFound = errors.New("contact not found")

// ErrInvalidConfirmToken is returned when an email confirmation token does
// not match the one issued for the account.
var ErrInvalidConfirmToken = errors.New("invalid confirmation token")

// ValidationError carries every reason a create or edit was rejected. The
// operation is not committed when one is returned.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Reasons) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Reasons, "; ")
}

// AsValidationError unwraps a ValidationError if err is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
