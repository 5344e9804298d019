package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pairchat/domain"
	"pairchat/errors"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "Tr0p-Sûr-Pour-Être-Deviné!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test_secret_key_for_unit_tests", time.Hour)
	identity := domain.Identity{ID: "4f3d2c1b-0000-4000-8000-000000000001", Username: "alice", DisplayName: "Alice"}

	token, err := manager.Generate(identity)
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal(identity, claims.Identity())
}

func TestTokenManager_RejectsForgedAndExpired(t *testing.T) {
	req := require.New(t)
	identity := domain.Identity{ID: "4f3d2c1b-0000-4000-8000-000000000001", Username: "alice", DisplayName: "Alice"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("secret_a", time.Hour).Generate(identity)
		req.NoError(err)

		_, err = NewTokenManager("secret_b", time.Hour).Validate(token)
		req.ErrorIs(err, errors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		manager := NewTokenManager("secret_a", -time.Minute)
		token, err := manager.Generate(identity)
		req.NoError(err)

		_, err = manager.Validate(token)
		req.ErrorIs(err, errors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewTokenManager("secret_a", time.Hour).Validate("not.a.token")
		req.ErrorIs(err, errors.ErrInvalidToken)
	})
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice42", "Alice", "ComplexPass123!"}, false},
		{"Missing username", RegisterRequest{"", "Alice", "ComplexPass123!"}, true},
		{"Missing display name", RegisterRequest{"alice42", "", "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{"alice42", "Alice", "Short1!"}, true},
		{"Missing digit", RegisterRequest{"alice42", "Alice", "NoDigitPassword!"}, true},
		{"Missing special char", RegisterRequest{"alice42", "Alice", "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{"alice42", "Alice", "nouppercase-123!"}, true},
		{"Password too long", RegisterRequest{"alice42", "Alice", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	req := require.New(t)
	to := "4f3d2c1b-0000-4000-8000-000000000002"

	req.NoError(ValidateSubmit(SubmitRequest{To: to, Content: "hi"}))
	req.Error(ValidateSubmit(SubmitRequest{To: "", Content: "hi"}))
	req.Error(ValidateSubmit(SubmitRequest{To: "not-a-uuid", Content: "hi"}))
	req.Error(ValidateSubmit(SubmitRequest{To: to, Content: ""}))
}
