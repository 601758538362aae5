package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// ClaimsKey is the context key for the validated token claims.
	ClaimsKey contextKey = "claims"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetClaims returns the session claims, or nil for unauthenticated calls.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// WithClaims stores the session in ctx the way RequireAuth does.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// RequireAuth returns an interceptor that validates JWT tokens and requires
// authentication, except for the listed public procedures.
// It extracts the token from the Authorization header, validates it, and adds
// the session to the request context.
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skip[req.Spec().Procedure] {
				return next(ctx, req)
			}

			claims, err := claimsFromHeader(jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}

func claimsFromHeader(jwtManager *auth.JWTManager, header string) (*auth.Claims, error) {
	if header == "" {
		return nil, auth.ErrMissingToken
	}

	// Parse Bearer token
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, auth.ErrInvalidToken
	}

	return jwtManager.Validate(parts[1])
}
