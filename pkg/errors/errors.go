// Package errors defines the typed errors every layer returns and the public
// code and HTTP status each one renders as.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels. Repositories return these bare; services wrap them in an
// AppError when the caller deserves a specific message.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal error")
	ErrConflict      = errors.New("conflict")
	ErrOutOfStock    = errors.New("out of stock")
	ErrRateLimited   = errors.New("rate limited")
)

// Public error codes.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeConflict      = "CONFLICT"
	CodeOutOfStock    = "OUT_OF_STOCK"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL_ERROR"
)

type kind struct {
	sentinel error
	code     string
	status   int
	message  string // used for bare sentinels; empty means err.Error()
}

// kinds is checked in order; the first sentinel matched by errors.Is wins.
var kinds = []kind{
	{ErrNotFound, CodeNotFound, http.StatusNotFound, "resource not found"},
	{ErrAlreadyExists, CodeAlreadyExists, http.StatusConflict, "resource already exists"},
	{ErrConflict, CodeConflict, http.StatusConflict, "request conflicts with existing data"},
	{ErrOutOfStock, CodeOutOfStock, http.StatusConflict, "requested quantity is not available"},
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest, ""},
	{ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized, "authentication required"},
	{ErrForbidden, CodeForbidden, http.StatusForbidden, "insufficient permissions"},
	{ErrRateLimited, CodeRateLimited, http.StatusTooManyRequests, "too many requests"},
}

// AppError carries a public code and message alongside the HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error omits the wrapped error when it is only the kind's sentinel.
func (e *AppError) Error() string {
	if e.Err != nil && !isSentinel(e.Err) {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func isSentinel(err error) bool {
	for _, k := range kinds {
		if err == k.sentinel {
			return true
		}
	}
	return false
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(sentinel error, message string) *AppError {
	for _, k := range kinds {
		if k.sentinel == sentinel {
			return &AppError{Code: k.code, Message: message, Status: k.status, Err: sentinel}
		}
	}
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: sentinel}
}

// NotFound reports a missing resource, e.g. NotFound("product", slug).
func NotFound(resource, id string) *AppError {
	return newError(ErrNotFound, fmt.Sprintf("%s with id %s not found", resource, id))
}

// AlreadyExists reports a unique-key clash.
func AlreadyExists(resource, field, value string) *AppError {
	return newError(ErrAlreadyExists, fmt.Sprintf("%s with %s %q already exists", resource, field, value))
}

func InvalidInput(message string) *AppError { return newError(ErrInvalidInput, message) }
func Unauthorized(message string) *AppError { return newError(ErrUnauthorized, message) }
func Forbidden(message string) *AppError    { return newError(ErrForbidden, message) }
func RateLimited(message string) *AppError  { return newError(ErrRateLimited, message) }

// Conflict is a write that clashes with existing state, such as deleting a
// category that still has products.
func Conflict(message string) *AppError { return newError(ErrConflict, message) }

// OutOfStock is a cart line that cannot be fulfilled.
func OutOfStock(message string) *AppError { return newError(ErrOutOfStock, message) }

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Classify returns the public status, code and message for err. ok is false
// for errors that are neither an AppError nor wrap a known sentinel.
func Classify(err error) (status int, code, message string, ok bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message, true
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			msg := k.message
			if msg == "" {
				msg = err.Error()
			}
			return k.status, k.code, msg, true
		}
	}
	return http.StatusInternalServerError, CodeInternal, "an internal error occurred", false
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	status, _, _, _ := Classify(err)
	return status
}
