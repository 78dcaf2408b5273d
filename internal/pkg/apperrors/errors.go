package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrBadRequest = errors.New("bad request")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")
)

// AppError carries an HTTP status alongside a user facing message.
type AppError struct {
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("[%d] %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewNotFound(format string, args ...any) error {
	return &AppError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
		Cause:   ErrNotFound,
	}
}

func NewBadRequest(format string, args ...any) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Cause:   ErrBadRequest,
	}
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// StatusCode maps err to the HTTP status the error boundary responds with.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &appErr) && appErr.Status != 0:
		return appErr.Status
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show to an end user.
func Message(err error) string {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		if appErr.Status >= http.StatusInternalServerError {
			return "An unexpected error occurred."
		}
		return appErr.Message
	case errors.Is(err, ErrNotFound):
		return "Resource not found."
	case errors.Is(err, ErrBadRequest):
		return err.Error()
	case errors.Is(err, ErrAlreadyExists):
		return "Resource already exists."
	default:
		return "An unexpected error occurred."
	}
}
