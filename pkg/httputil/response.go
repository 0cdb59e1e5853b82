package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/logger"
	"github.com/KartikVerma96/paregrose/pkg/validator"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// Response is the JSON envelope returned by every endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in the envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Data: data})
}

// WriteErrorCode writes an error envelope with an explicit code.
func WriteErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID(r)},
	})
}

// WriteError renders err in the envelope. Client errors keep their code and
// message; anything else is logged with the request-scoped logger (or
// fallback) and rendered as a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, r, err)
		return
	}

	if status, code, msg, ok := apperrors.Classify(err); ok && status < http.StatusInternalServerError {
		WriteErrorCode(w, r, status, code, msg)
		return
	}

	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteErrorCode(w, r, http.StatusInternalServerError, apperrors.CodeInternal, "an internal error occurred")
}

// WriteValidationError renders a validator.ValidationError with per-field
// messages; any other error becomes a plain INVALID_INPUT.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: requestID(r),
			},
		})
		return
	}
	WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
}

// DecodeJSON decodes a size-capped JSON body into dst and validates it. On
// failure it writes the 400 response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_INPUT", "invalid request body: "+err.Error())
		return false
	}
	if err := validator.Validate(dst); err != nil {
		WriteValidationError(w, r, err)
		return false
	}
	return true
}

// ParseUUID validates a path parameter. On failure it writes a 400
// INVALID_PARAMETER response and returns false.
func ParseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteErrorCode(w, r, http.StatusBadRequest, "INVALID_PARAMETER", "invalid UUID: "+param)
		return uuid.Nil, false
	}
	return id, true
}

func requestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return logger.CorrelationIDFromContext(r.Context())
}
