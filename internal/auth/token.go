// Package auth verifies session tokens issued by the hosted auth backend.
//
// User accounts live in the external auth platform; this app never mints
// tokens or stores credentials. It only checks the HS256 signature on the
// JWT the frontend forwards and extracts the subject.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// issuer, expiry, or a malformed subject. Callers get one error so the
// response never hints at which check failed.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the claims this app reads from the backend's session JWT.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates session JWTs against the shared signing secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a verifier for tokens signed with secret. When
// issuer is non-empty, tokens carrying a different iss claim are rejected.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Identity is the authenticated principal extracted from a valid token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// Verify checks the token's signature and standard claims and returns the
// caller's identity.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user ID", ErrInvalidToken)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
