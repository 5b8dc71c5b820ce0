package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: bl_sess_{secret}
// Example: bl_sess_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretLen is the secret length (hex encoded 16 bytes).
	TokenSecretLen = 32
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^bl_sess_([a-f0-9]{32})$`)
)

// GenerateSessionToken creates a new opaque session token.
// The token is the session key in Redis; it is never persisted in Postgres.
func GenerateSessionToken() (string, error) {
	secretBytes := make([]byte, 16)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	return fmt.Sprintf("bl_sess_%s", hex.EncodeToString(secretBytes)), nil
}

// ValidateTokenFormat checks that a presented token matches the expected
// shape before any store lookup happens. Malformed tokens are rejected
// without touching Redis.
func ValidateTokenFormat(token string) error {
	if !tokenFormatRegex.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}
