// Package apperr defines the error kinds shared by every service and the
// single place handlers map them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrValidation marks malformed or missing input. No state is mutated.
var ErrValidation = errors.New("validation error")

// ErrNotFound marks a referenced client, vehicle or journey that does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict marks a duplicate unique key on create, or a submit/close
// against an already closed journey.
var ErrConflict = errors.New("conflict")

// ErrUnavailable marks the persistent store being unreachable.
var ErrUnavailable = errors.New("store unavailable")

// Store classifies an unexpected persistence failure as unavailable.
// Callers sort out no-rows and constraint outcomes before reaching for it,
// so whatever is left is the store itself misbehaving. The original error
// stays in the chain for errors.Is/As.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("store failure: %w (%w)", ErrUnavailable, err)
}

// ToFiber maps a service error onto a fiber error with the right status.
func ToFiber(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
