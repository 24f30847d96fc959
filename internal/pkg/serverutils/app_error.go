package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures so the HTTP layer can map them to status codes
// without inspecting error strings.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota // missing or wrong-typed request fields
	KindNotFound                      // key does not resolve to an in-bounds file
	KindInvalidShape                  // parsed JSON fails the document validator
	KindIOFailure                     // unexpected read/write/parse error
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewInvalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewInvalidShape(message string) *AppError {
	return &AppError{Kind: KindInvalidShape, Message: message}
}

func NewIOFailure(message string, err error) *AppError {
	return &AppError{Kind: KindIOFailure, Message: message, Err: err}
}

// StatusCode maps the taxonomy onto HTTP. Traversal attempts surface as
// InvalidInput or NotFound so responses never reveal filesystem structure.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindInvalidInput, KindInvalidShape:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
