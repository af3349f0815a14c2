// Package httputil centralizes JSON encoding and domain-error translation for
// HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "opus/pkg/domain-errors"
)

// ErrorResponse is the uniform error body. Reason carries a stable
// machine-readable cause for conditions that share a status code.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are
// unrecoverable mid-response and are dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error to its wire shape. Internal errors omit the
// description so storage details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorReason(w, err, "")
}

// WriteErrorReason is WriteError with an explicit reason field.
func WriteErrorReason(w http.ResponseWriter, err error, reason string) {
	code := dErrors.CodeOf(err)
	body := ErrorResponse{Error: wireCode(code), Reason: reason}
	if code != dErrors.CodeInternal {
		body.Description = dErrors.MessageOf(err)
	}
	WriteJSON(w, StatusFor(code), body)
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func wireCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeBadRequest:
		return "bad_request"
	case dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeUnavailable:
		return "service_unavailable"
	case dErrors.CodeTimeout:
		return "timeout"
	default:
		return "internal_error"
	}
}

// DecodeAndPrepare decodes a JSON request body into T, writing a 400 and
// logging on malformed input. The second return is false when the response
// has already been written.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "malformed request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}
	return req, true
}
