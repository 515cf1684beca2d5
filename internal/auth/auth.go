// Package auth resolves bearer tokens into principals. The rest of the
// service only ever sees the stable user identifier.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lexiquiz/internal/errors"
)

// Principal is the authenticated identity issuing a request.
type Principal struct {
	UserID string
}

type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}

// JWTResolver verifies HMAC-signed bearer tokens whose subject is the
// user id.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (r *JWTResolver) Resolve(_ context.Context, token string) (Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := r.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil {
		return Principal{}, errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("invalid token"),
			errors.WithCause(err))
	}

	if claims.Subject == "" {
		return Principal{}, errors.Unauthenticated("token has no subject")
	}

	return Principal{UserID: claims.Subject}, nil
}

// Sign issues a token the resolver accepts. Used by tooling and tests; the
// production issuer lives with the account system.
func Sign(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString([]byte(secret))
}
