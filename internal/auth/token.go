package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewConfirmationToken returns a one-time token used to prove control of an
// email address before sign-in is permitted.
func NewConfirmationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
