package webutil

import (
	"errors"
	"net/http"
)

const (
	msgBadRequest          = "Bad Request"
	msgNotFound            = "Resource not found"
	msgInternalServer      = "Internal Server Error"
	msgForbidden           = "Forbidden"
	msgConflict            = "Conflict"
	msgUnprocessableEntity = "Unprocessable Entity"
)

// HTTPError is an error with an associated HTTP status code and a
// user-facing message. The wrapped cause, when present, is only logged.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (he HTTPError) Error() string {
	return he.Message
}

func (he HTTPError) Unwrap() error {
	return he.cause
}

func newHTTPError(code int, message, defaultMsg string) *HTTPError {
	if message == "" {
		message = defaultMsg
	}
	return &HTTPError{cause: errors.New(message), Code: code, Message: message}
}

// NewHTTPErrorWrap creates an HTTPError that wraps an existing cause.
func NewHTTPErrorWrap(code int, message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: code, Message: message}
}

func ErrBadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message, msgBadRequest)
}

func ErrNotFound(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, msgNotFound)
}

func ErrForbidden(message string) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, msgForbidden)
}

func ErrConflict(message string) *HTTPError {
	return newHTTPError(http.StatusConflict, message, msgConflict)
}

func ErrUnprocessableEntity(message string) *HTTPError {
	return newHTTPError(http.StatusUnprocessableEntity, message, msgUnprocessableEntity)
}

func ErrInternalServer(message string) *HTTPError {
	return newHTTPError(http.StatusInternalServerError, message, msgInternalServer)
}
