// Package httputil centralizes JSON response writing and request
// decoding for HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "claimbank/pkg/domain-errors"
)

// Validatable is implemented by request structs that validate and parse
// their own fields after decoding.
type Validatable interface {
	Validate() error
}

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and JSON body.
// Unrecognized errors become 500 with a generic message so internals
// never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   string(dErrors.CodeInternal),
			Message: "internal error",
		})
		return
	}
	WriteJSON(w, statusFor(de.Code), ErrorResponse{
		Error:   string(de.Code),
		Message: de.Message,
		Details: de.Details,
	})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeNotCreditorOrDebtor:
		return http.StatusForbidden
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case dErrors.CodeInvalidState:
		return http.StatusConflict
	case dErrors.CodeInvalidAmount, dErrors.CodeInvalidDueDate,
		dErrors.CodeLengthMismatch, dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DecodeAndPrepare decodes the request body into T and runs its
// Validate method when implemented. On failure it writes the error
// response itself and returns ok=false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			if logger != nil {
				logger.WarnContext(ctx, "request validation failed",
					"request_id", requestID,
					"error", err,
				)
			}
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}
