package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"opus/pkg/domain"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	// AuthorAddress is the ledger address asserted by the wallet/identity
	// provider. It is the only caller identity the registry trusts; request
	// bodies never carry it.
	AuthorAddress string
}

type contextKeyAuthor struct{}

// GetAuthor retrieves the authenticated author address from the context.
// The zero address and false mean the request was not authenticated.
func GetAuthor(ctx context.Context) (domain.AuthorAddress, bool) {
	author, ok := ctx.Value(contextKeyAuthor{}).(domain.AuthorAddress)
	return author, ok
}

// WithAuthor returns a context carrying the author identity. Exported for
// handler tests that bypass the middleware.
func WithAuthor(ctx context.Context, author domain.AuthorAddress) context.Context {
	return context.WithValue(ctx, contextKeyAuthor{}, author)
}

// RequireAuth validates the bearer token and parses the asserted address into
// its canonical form before any handler sees it.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			author, err := domain.ParseAuthorAddress(claims.AuthorAddress)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed author address in token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid author identity")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuthor(ctx, author)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
