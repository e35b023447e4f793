package serverutils

import (
	"errors"
	"net/http"
)

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError   { return NewAppError(http.StatusBadRequest, message) }
func Unauthorized(message string) *AppError { return NewAppError(http.StatusUnauthorized, message) }
func Forbidden(message string) *AppError    { return NewAppError(http.StatusForbidden, message) }
func NotFound(message string) *AppError     { return NewAppError(http.StatusNotFound, message) }

// Internal hides the cause from the client but keeps it for logging.
func Internal(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf returns the HTTP status carried by err, 500 otherwise.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
