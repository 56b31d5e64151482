// Package auth verifies the bearer token issued by the external auth service
// and decodes the caller's identity from its claims.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
	correlationKey
)

// Tokens are HMAC-signed with the secret shared with the auth service.
var validMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// ParseToken verifies the signature of raw against secret and decodes its
// identity claims. Unsigned, forged, expired and subject-less tokens are
// rejected with model.ErrUnauthenticated.
func ParseToken(raw string, secret []byte, now time.Time) (model.Identity, error) {
	if len(secret) == 0 {
		return model.Identity{}, fmt.Errorf("%w: no signing secret configured", model.ErrUnauthenticated)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(validMethods),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.Identity{}, fmt.Errorf("%w: token expired", model.ErrUnauthenticated)
	case err != nil:
		return model.Identity{}, fmt.Errorf("%w: invalid token: %v", model.ErrUnauthenticated, err)
	}

	identity := model.Identity{
		Username: claimString(claims, "username"),
		ID:       claimString(claims, "id"),
		Role:     claimString(claims, "role"),
	}
	if identity.ID == "" {
		identity.ID = claimString(claims, "sub")
	}
	if identity.Username == "" && identity.ID == "" {
		return model.Identity{}, fmt.Errorf("%w: token has no subject", model.ErrUnauthenticated)
	}

	return identity, nil
}

func claimString(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// WithIdentity returns a context carrying the caller identity and raw token.
func WithIdentity(ctx context.Context, identity model.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, tokenKey, token)
}

// IdentityFrom returns the caller identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

// TokenFrom returns the raw bearer token stored by WithIdentity.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// WithCorrelationID returns a context carrying the request correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

// CorrelationIDFrom returns the correlation id, or "" when none is set.
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey).(string)
	return id
}
