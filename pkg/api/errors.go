package api

import (
	"encoding/json"
	"net/http"

	perrors "github.com/matzehuels/polypack/pkg/errors"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code perrors.Code) int {
	switch code {
	case perrors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case perrors.ErrCodeNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeResourceExhausted, perrors.ErrCodeEmptyPool:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{
		Error:     errorDetail{Code: code, Message: perrors.UserMessage(err)},
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidArgument, format, args...)
}

func notFound(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeNotFound, format, args...)
}
