package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid identity token")
)

// Identity is the verified caller extracted from an identity-provider
// token. The authentication protocol itself is the provider's concern;
// this package only checks the boundary.
type Identity struct {
	Subject  string
	Username string
}

// Verifier checks bearer tokens issued by the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// JWTVerifier validates provider-issued JWTs against an expected issuer,
// audience and signing key.
type JWTVerifier struct {
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

// NewJWTVerifier constructs a verifier for HMAC-signed provider tokens.
func NewJWTVerifier(issuer, audience string, key []byte) *JWTVerifier {
	return &JWTVerifier{
		parser: jwt.NewParser(
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
		keyFunc: func(*jwt.Token) (any, error) { return key, nil },
	}
}

type providerClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// Verify parses and validates a raw token string.
func (v *JWTVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &providerClaims{}
	token, err := v.parser.ParseWithClaims(raw, claims, v.keyFunc)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}

	return Identity{
		Subject:  claims.Subject,
		Username: username,
	}, nil
}
