package core

import "net/http"

// HTTPError represents an HTTP error with a status code and a stable
// machine-readable key clients can switch on.
type HTTPError struct {
	Code int    // HTTP status code
	Key  string // Stable error key (e.g. "not_found", "unauthorized")
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Key
}

// 4xx Client Errors
var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnprocessableEntity = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
)

// 5xx Server Errors
var (
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// NewHTTPError creates a custom HTTP error with the given status code and key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

// WithMessage pairs an HTTPError with a human-readable message.
func (e HTTPError) WithMessage(msg string) error {
	return httpErrorWithMessage{HTTPError: e, message: msg}
}

type httpErrorWithMessage struct {
	HTTPError
	message string
}

func (e httpErrorWithMessage) Error() string {
	return e.message
}

// Unwrap lets errors.As find the underlying HTTPError for status mapping.
func (e httpErrorWithMessage) Unwrap() error {
	return e.HTTPError
}
