// Package apperr holds the domain error taxonomy shared by services and
// transport. Handlers map these to HTTP statuses with Status.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalid         = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
)

// Status maps a domain error to its HTTP status code. Unknown errors are
// internal server errors.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrInvalid):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
