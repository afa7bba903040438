// Package httperr is the terminal error translator: every failure thrown
// by a handler or service ends up here and leaves as uniform JSON with at
// least a "message" field.
package httperr

import (
	"errors"

	"notedeck/internal/services/fault"

	"github.com/gofiber/fiber/v2"
)

// E represents an HTTP error with status code and message.
type E struct {
	Status  int    `json:"-" example:"400"`
	Message string `json:"message" example:"Bad Request"`
	Stack   string `json:"stack,omitempty"`
}

// Error implements the error interface.
func (e E) Error() string {
	return e.Message
}

// JSON writes the error as a JSON response.
func (e E) JSON(c *fiber.Ctx) error {
	return c.Status(e.Status).JSON(e)
}

// Fail returns the error for Fiber's global error handler to process.
func Fail(err E) error {
	return err
}

// InvalidInput wraps a validation message in the standard 400 response.
func InvalidInput(message string) error {
	return Fail(E{
		Status:  400,
		Message: message,
	})
}

// InternalError returns an internal server error with the given message.
func InternalError(message string) E {
	return E{Status: 500, Message: message}
}

// Pre-defined HTTP errors
var (
	ErrBadRequest   = E{Status: 400, Message: "Bad Request"}
	ErrUnauthorized = E{Status: 401, Message: "Authentication failed: Please login again"}
	ErrInternal     = InternalError("Internal Server Error")
)

// verbose controls whether the error chain is echoed back in a "stack"
// field. It is enabled outside production only.
var verbose bool

// SetVerbose toggles error detail in responses. Call once at boot.
func SetVerbose(v bool) {
	verbose = v
}

// Handler is the global error handler for Fiber.
func Handler(c *fiber.Ctx, err error) error {
	var e E
	if errors.As(err, &e) {
		return e.JSON(c)
	}

	var validation *fault.Validation
	if errors.As(err, &validation) {
		return E{Status: 400, Message: validation.Message}.JSON(c)
	}

	var notFound *fault.NotFound
	if errors.As(err, &notFound) {
		return E{Status: 404, Message: notFound.Error()}.JSON(c)
	}

	var forbidden *fault.Forbidden
	if errors.As(err, &forbidden) {
		return E{Status: 403, Message: forbidden.Error()}.JSON(c)
	}

	var conflict *fault.Conflict
	if errors.As(err, &conflict) {
		return E{Status: 409, Message: conflict.Error()}.JSON(c)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return E{
			Status:  fiberError.Code,
			Message: fiberError.Message,
		}.JSON(c)
	}

	resp := E{Status: 500, Message: err.Error()}
	if verbose {
		resp.Stack = err.Error()
	}
	return resp.JSON(c)
}
