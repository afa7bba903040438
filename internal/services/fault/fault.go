// Package fault defines the tagged error variants shared by all services.
// Handlers never inspect store errors directly; repositories and services
// translate failures into these types and the HTTP error handler maps each
// variant to its status code and user-facing message.
package fault

import "fmt"

// NotFound is returned when a resource addressed by id does not exist.
type NotFound struct {
	Kind string // "Note", "Task", "Subtask"
}

func (e *NotFound) Error() string {
	return e.Kind + " not found"
}

// Forbidden is returned when a resource exists but belongs to another user.
type Forbidden struct {
	Kind string
}

func (e *Forbidden) Error() string {
	return fmt.Sprintf("Access denied, You don't own this %s", e.Kind)
}

// Conflict is returned when a unique-index violation is reported by the
// store. Field carries the first conflicting key that is not the owner id.
type Conflict struct {
	Kind  string
	Field string
}

func (e *Conflict) Error() string {
	return fmt.Sprintf("The %s is already used", e.Field)
}

// Validation is returned when an input constraint is violated after the
// structural validator ran, e.g. a title that is empty once trimmed.
// Message is surfaced to the caller verbatim.
type Validation struct {
	Message string
}

func (e *Validation) Error() string {
	return e.Message
}
