package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID) *Claims {
	return &Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "https://auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(testSecret, "https://auth.example.com")

	id, err := v.Verify(signToken(t, testSecret, validClaims(userID)))

	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "user@example.com", id.Email)
}

func TestVerifyRejections(t *testing.T) {
	userID := uuid.New()
	v := NewVerifier(testSecret, "https://auth.example.com")

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{
			name:  "wrong secret",
			token: signToken(t, "other-secret", validClaims(userID)),
		},
		{
			name: "expired",
			token: signToken(t, testSecret, &Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   userID.String(),
					Issuer:    "https://auth.example.com",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				},
			}),
		},
		{
			name: "wrong issuer",
			token: signToken(t, testSecret, &Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   userID.String(),
					Issuer:    "https://evil.example.com",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}),
		},
		{
			name: "subject not a uuid",
			token: signToken(t, testSecret, &Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "12345",
					Issuer:    "https://auth.example.com",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := &Identity{UserID: uuid.New(), Email: "user@example.com"}

	ctx := WithIdentity(t.Context(), id)

	assert.Equal(t, id, IdentityFrom(ctx))
	assert.Nil(t, IdentityFrom(t.Context()))
}
