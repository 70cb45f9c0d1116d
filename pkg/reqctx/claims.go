package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is what request handling needs to know about a verified token.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetUsername() string
	GetSessionID() *uuid.UUID
	GetTokenType() string
	IsExpired() bool
}

// WithClaims stores authentication claims in the context.
func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns nil for unauthenticated requests.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(keyClaims).(AuthClaims)
	return claims
}

// IsAuthenticated returns true if unexpired claims exist in the context.
func IsAuthenticated(ctx context.Context) bool {
	claims := ClaimsFromContext(ctx)
	return claims != nil && !claims.IsExpired()
}

// UserIDFromContext extracts the user ID from claims.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil, false
	}
	return claims.GetUserID(), true
}

// UsernameFromContext extracts the username from claims.
func UsernameFromContext(ctx context.Context) (string, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.GetUsername() == "" {
		return "", false
	}
	return claims.GetUsername(), true
}
