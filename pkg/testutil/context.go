package testutil

import (
	"net/http"

	"opus/internal/platform/middleware"
	"opus/pkg/domain"
)

// WithAuthor adds an authenticated author to the request context. This
// simulates what the auth middleware does for a valid bearer token. A
// malformed address is silently ignored so the request stays anonymous.
func WithAuthor(req *http.Request, address string) *http.Request {
	author, err := domain.ParseAuthorAddress(address)
	if err != nil {
		return req
	}
	return req.WithContext(middleware.WithAuthor(req.Context(), author))
}
