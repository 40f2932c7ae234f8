package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

const minPasswordLength = 6

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks a candidate against the stored hash.
func VerifyPassword(hash, candidate string) error {
	if strings.TrimSpace(hash) == "" {
		return errors.New("stored password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
}

// ValidatePassword checks the password policy and returns every violated
// rule, not just the first, so the caller can surface them all at once.
func ValidatePassword(password string) []string {
	var reasons []string

	if len(password) < minPasswordLength {
		reasons = append(reasons, "password must be at least 6 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper {
		reasons = append(reasons, "password must contain an uppercase letter")
	}
	if !hasLower {
		reasons = append(reasons, "password must contain a lowercase letter")
	}
	if !hasDigit {
		reasons = append(reasons, "password must contain a digit")
	}
	if !hasSymbol {
		reasons = append(reasons, "password must contain a non-alphanumeric character")
	}

	return reasons
}
