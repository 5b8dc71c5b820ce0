package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateSessionToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if !strings.HasPrefix(token, "bl_sess_") {
		t.Errorf("Token should start with bl_sess_, got: %s", token)
	}

	secret := strings.TrimPrefix(token, "bl_sess_")
	if len(secret) != TokenSecretLen {
		t.Errorf("Secret should be %d chars, got: %d", TokenSecretLen, len(secret))
	}

	if err := ValidateTokenFormat(token); err != nil {
		t.Errorf("Generated token should validate, got: %v", err)
	}
}

func TestGenerateSessionToken_Uniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("Duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestValidateTokenFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", "bl_sess_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", false},
		{"empty", "", true},
		{"missing_prefix", "4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b", true},
		{"short_secret", "bl_sess_4f8d2e1b", true},
		{"uppercase_secret", "bl_sess_4F8D2E1B9C7A5F3D2E1B9C7A5F3D2E1B", true},
		{"non_hex_secret", "bl_sess_zzzz2e1b9c7a5f3d2e1b9c7a5f3d2e1b", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateTokenFormat(test.token)
			if test.wantErr && !errors.Is(err, ErrInvalidTokenFormat) {
				t.Errorf("expected ErrInvalidTokenFormat, got %v", err)
			}
			if !test.wantErr && err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})
	}
}
