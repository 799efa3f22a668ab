package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/debtbook/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AccountIDKey is the context key for storing the authenticated account ID.
const AccountIDKey contextKey = "account_id"

// GetAccountID extracts the account ID from the context.
// Returns empty string if not found.
func GetAccountID(ctx context.Context) string {
	accountID, _ := ctx.Value(AccountIDKey).(string)
	return accountID
}

// WithAccountID returns a copy of ctx carrying accountID.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// bearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth returns an interceptor that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the account ID to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithAccountID(ctx, claims.AccountID), req)
		}
	}
}
