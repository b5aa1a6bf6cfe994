package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal error")
)

// AppError carries an HTTP status code, a user-facing message and the
// underlying cause for logging.
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

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg, Err: ErrInvalidInput}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg, Err: ErrNotFound}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: msg, Err: ErrAlreadyExists}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: msg, Err: ErrUnauthorized}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: msg, Err: ErrForbidden}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: msg, Err: err}
}

// RespondError converts a service error into the standard error response.
// AppError values keep their code and message; anything else is logged and
// returned as a generic server error.
func RespondError(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case http.StatusBadRequest:
			return SendClientError(c, appErr.Message)
		case http.StatusUnauthorized:
			return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", appErr.Message, nil))
		case http.StatusForbidden:
			return SendForbiddenError(c, appErr.Message)
		case http.StatusNotFound:
			return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", appErr.Message, nil))
		case http.StatusConflict:
			return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", appErr.Message, nil))
		default:
			log.Printf("internal error: %v", appErr)
			return SendServerError(c, appErr.Message)
		}
	}
	log.Printf("unhandled error: %v", err)
	return SendServerError(c, "operation could not be completed")
}
