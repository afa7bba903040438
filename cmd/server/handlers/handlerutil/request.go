package handlerutil

import (
	"errors"
	"fmt"

	"notedeck/cmd/server/handlers/httperr"
	"notedeck/internal/logger"
	"notedeck/internal/services/fault"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Envelope is the uniform success response shape: a human-readable message
// plus, for data-bearing operations, the payload.
type Envelope struct {
	Message string `json:"message" example:"Note created successfully"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes a success envelope with the given status.
func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Message: message, Data: data})
}

// GetUserID extracts the resolved owner identity from the fiber context.
// The JWT middleware stored it; a missing value means the route was wired
// without auth and is always a 401.
func GetUserID(c *fiber.Ctx) (bson.ObjectID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		logger.L().Error("user ID not found in context", "path", c.Path())
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	userID, err := bson.ObjectIDFromHex(userIDStr)
	if err != nil {
		logger.L().Error("invalid user ID", "userIDStr", userIDStr, "path", c.Path(), "error", err)
		return bson.ObjectID{}, httperr.Fail(httperr.ErrUnauthorized)
	}

	return userID, nil
}

// ParseAndValidateBody parses a request body and validates it. Only the
// first violated field's message is surfaced.
func ParseAndValidateBody(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	if err := c.BodyParser(req); err != nil {
		logger.L().Warn("failed to parse request body", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := v.Struct(req); err != nil {
		logger.L().Warn("request validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(FirstViolation(err))
	}

	return nil
}

// ParseAndValidateQuery parses query parameters and validates them.
func ParseAndValidateQuery(c *fiber.Ctx, req any, v *validator.Validate, handlerName string) error {
	if err := c.QueryParser(req); err != nil {
		logger.L().Warn("failed to parse query params", "handler", handlerName, "error", err)
		return httperr.Fail(httperr.ErrBadRequest)
	}

	if err := v.Struct(req); err != nil {
		logger.L().Warn("query validation failed", "handler", handlerName, "error", err)
		return httperr.InvalidInput(FirstViolation(err))
	}

	return nil
}

// FirstViolation renders the first field error of a validator error as a
// human-readable message. Aggregation is deliberate non-behavior: callers
// see one problem at a time.
func FirstViolation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		switch fe.Tag() {
		case "required":
			return "Title is a required field"
		case "max":
			return fmt.Sprintf("Title should be at most %s characters long", fe.Param())
		}
	case "Tags":
		return "At least one tag is required"
	case "SubTasks":
		return "At least one sub-task is required"
	case "Color":
		return "Color must be a valid hex color"
	case "Priority":
		return "Priority must be one of Low, Medium, High"
	case "IsCompleted":
		return "isCompleted must be true or false"
	case "Email":
		return "A valid email is required"
	case "Password":
		if fe.Tag() == "password" {
			return "Password must be at least 8 characters and contain an uppercase letter, a lowercase letter, and a digit"
		}
		return "Password is a required field"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// ExtractResourceID parses the :id (or another named) path parameter.
// A missing or malformed id is answered as not-found for the addressed
// resource kind, never as a bad request.
func ExtractResourceID(c *fiber.Ctx, param, kind string) (bson.ObjectID, error) {
	idStr := c.Params(param)
	if idStr == "" {
		return bson.ObjectID{}, &fault.NotFound{Kind: kind}
	}

	id, err := bson.ObjectIDFromHex(idStr)
	if err != nil {
		logger.L().Warn("invalid resource ID parameter", "param", param, "value", idStr, "path", c.Path())
		return bson.ObjectID{}, &fault.NotFound{Kind: kind}
	}

	return id, nil
}
