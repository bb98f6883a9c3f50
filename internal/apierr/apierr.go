package apierr

import "net/http"

// Stable machine-readable error codes returned in the response envelope.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeConstraint   = "CONSTRAINT_ERROR"
	CodeServer       = "SERVER_ERROR"
)

// Error is a business error carrying the envelope fields and an HTTP status.
type Error struct {
	Code    string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
	Status  int            `json:"-"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func New(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Details: map[string]any{}, Status: status}
}

// WithDetail attaches a key to the details map and returns the error.
func (e *Error) WithDetail(key string, value any) *Error {
	e.Details[key] = value
	return e
}

func Validation(message string) *Error {
	return New(CodeValidation, message, http.StatusUnprocessableEntity)
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message, http.StatusConflict)
}

func Constraint(message string) *Error {
	return New(CodeConstraint, message, http.StatusConflict)
}

func Server(err error) *Error {
	msg := "Unexpected error"
	if err != nil {
		msg = err.Error()
	}
	return New(CodeServer, msg, http.StatusInternalServerError)
}

// From returns err unchanged when it already is an *Error, otherwise wraps it
// as SERVER_ERROR. Services use it at transaction boundaries so business
// failures keep their code while store failures surface as 500s.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Server(err)
}
