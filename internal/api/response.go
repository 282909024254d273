package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// Error codes carried in error response bodies.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConflict         = "CONFLICT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string                  `json:"code"`
	Message   string                  `json:"message"`
	RequestID string                  `json:"request_id,omitempty"`
	Fields    []validation.FieldError `json:"fields,omitempty"`
}

// statusFor maps a service error to its HTTP status and error code.
// ErrMissingParameter is checked before ErrInvalidRange because range
// errors can wrap both.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrMissingParameter):
		return http.StatusBadRequest, CodeMissingParameter
	case errors.Is(err, errors.ErrInvalidRange):
		return http.StatusBadRequest, CodeInvalidRange
	case errors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errors.ErrDuplicateCheckIn):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondJSON writes v as the bare response payload.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Debug("Failed to write JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, status, ErrorBody{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}})
}

// respondServiceError classifies err and writes the matching error body.
// Internal errors are logged and replaced by a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	body := APIError{
		Code:      code,
		Message:   err.Error(),
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			"method", r.Method,
			"path", sanitizeLogValue(r.URL.Path),
			"request_id", body.RequestID,
			"error", err)
		body.Message = "internal server error"
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	respondJSON(w, status, ErrorBody{Error: body})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
