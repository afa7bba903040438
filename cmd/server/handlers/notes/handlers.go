package notes

import (
	"context"

	"notedeck/cmd/server/handlers/handlerutil"
	"notedeck/internal/services/notes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const resourceKind = "Note"

// Service defines the interface for the notes service.
type Service interface {
	Create(ctx context.Context, ownerID bson.ObjectID, req notes.CreateNoteRequest) (*notes.Note, error)
	List(ctx context.Context, ownerID bson.ObjectID, req notes.ListNotesRequest) ([]*notes.Note, error)
	ListArchived(ctx context.Context, ownerID bson.ObjectID) ([]*notes.Note, error)
	TogglePin(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.Note, error)
	ToggleArchive(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.Note, bool, error)
	Duplicate(ctx context.Context, ownerID, noteID bson.ObjectID) (*notes.Note, error)
	Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error
}

// Handlers contains the notes HTTP handlers.
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new notes handlers.
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Create handles note creation
// @Summary Create a new note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body notes.CreateNoteRequest true "Create note request"
// @Success 201 {object} handlerutil.Envelope
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /notes [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.CreateNoteRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	note, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 201, "Note created successfully", note)
}

// List handles notes listing with optional search
// @Summary List non-archived notes, pinned first then newest first
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param search query string false "Case-insensitive substring match on title, content, or any tag"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Router /notes [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req notes.ListNotesRequest
	if err := handlerutil.ParseAndValidateQuery(c, &req, h.validator, "List"); err != nil {
		return err
	}

	found, err := h.service.List(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Notes retrieved successfully", found)
}

// ListArchived handles listing of archived notes
// @Summary List archived notes, newest first
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Router /notes/archived [get]
func (h *Handlers) ListArchived(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	found, err := h.service.ListArchived(c.Context(), userID)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Archived notes retrieved successfully", found)
}

// TogglePin handles the pin toggle
// @Summary Toggle a note's pin flag
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/pin [patch]
func (h *Handlers) TogglePin(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	note, err := h.service.TogglePin(c.Context(), userID, noteID)
	if err != nil {
		return err
	}

	message := "Note unpinned"
	if note.IsPinned {
		message = "Note pinned"
	}

	return handlerutil.Respond(c, 200, message, note)
}

// ToggleArchive handles the archive toggle
// @Summary Toggle a note's archive flag; archiving clears the pin
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id}/archive [patch]
func (h *Handlers) ToggleArchive(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	note, unpinned, err := h.service.ToggleArchive(c.Context(), userID, noteID)
	if err != nil {
		return err
	}

	message := "Note restored"
	if note.IsArchived {
		message = "Note archived"
		if unpinned {
			message += " and unpinned"
		}
	}

	return handlerutil.Respond(c, 200, message, note)
}

// Duplicate handles note duplication
// @Summary Clone a note under the next free copy name
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 201 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /notes/{id}/duplicate [post]
func (h *Handlers) Duplicate(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	dup, err := h.service.Duplicate(c.Context(), userID, noteID)
	if err != nil {
		return err
	}

	return handlerutil.Respond(c, 201, "Note duplicated successfully", dup)
}

// Delete handles permanent note deletion
// @Summary Delete a note permanently
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} handlerutil.Envelope
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /notes/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	noteID, err := handlerutil.ExtractResourceID(c, "id", resourceKind)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, noteID); err != nil {
		return err
	}

	return handlerutil.Respond(c, 200, "Note deleted successfully", nil)
}
