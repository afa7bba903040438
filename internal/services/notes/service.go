package notes

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"notedeck/internal/services/fault"
	"notedeck/internal/services/ownership"
	"notedeck/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// resourceKind names the entity in not-found and access-denied messages.
const resourceKind = "Note"

// DefaultColor is applied when a create request omits the color.
const DefaultColor = "#ffffff"

// Service handles notes business logic.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new notes service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// CreateNoteRequest represents a note creation request.
type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"required,max=255" example:"Shopping"`
	Content  string   `json:"content" example:"Milk, eggs, bread"`
	Color    string   `json:"color" validate:"omitempty,hexcolor" example:"#FFD700"`
	Tags     []string `json:"tags" validate:"required,min=1,dive,required" example:"groceries,home"`
	IsPinned bool     `json:"isPinned"`
}

// ListNotesRequest represents a list notes request.
type ListNotesRequest struct {
	Search string `query:"search" validate:"omitempty,max=256" example:"groceries"`
}

// Create persists a new note owned by the caller. The owner id always comes
// from the resolved identity, never from the request body.
func (s *Service) Create(ctx context.Context, ownerID bson.ObjectID, req CreateNoteRequest) (*Note, error) {
	title := sanitize.Clean(req.Title)
	if title == "" {
		return nil, &fault.Validation{Message: "Title cannot be empty"}
	}

	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		cleaned := sanitize.Clean(t)
		if cleaned == "" {
			return nil, &fault.Validation{Message: "Tags cannot contain empty values"}
		}
		tags = append(tags, cleaned)
	}

	color := req.Color
	if color == "" {
		color = DefaultColor
	}

	now := time.Now()
	note := &Note{
		ID:        bson.NewObjectID(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   sanitize.Clean(req.Content),
		Color:     color,
		IsPinned:  req.IsPinned,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		var conflict *fault.Conflict
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.log.Error(ErrCreateNote.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrCreateNote
	}

	return note, nil
}

// List returns the caller's non-archived notes, optionally filtered by a
// case-insensitive substring match on title, content, or any tag. Pinned
// notes come first, then most recently created.
func (s *Service) List(ctx context.Context, ownerID bson.ObjectID, req ListNotesRequest) ([]*Note, error) {
	found, err := s.repo.List(ctx, ownerID, req.Search)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrListNotes
	}
	return found, nil
}

// ListArchived returns the caller's archived notes, most recent first.
func (s *Service) ListArchived(ctx context.Context, ownerID bson.ObjectID) ([]*Note, error) {
	found, err := s.repo.ListArchived(ctx, ownerID)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "owner_id", ownerID.Hex())
		return nil, ErrListNotes
	}
	return found, nil
}

// TogglePin flips the pin flag. Archive state is untouched.
func (s *Service) TogglePin(ctx context.Context, ownerID, noteID bson.ObjectID) (*Note, error) {
	note, err := ownership.Resolve(ctx, s.repo, resourceKind, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	pinned := !note.IsPinned
	updated, err := s.repo.Update(ctx, noteID, NotePatch{IsPinned: &pinned})
	if err != nil {
		s.log.Error(ErrUpdateNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, ErrUpdateNote
	}

	return updated, nil
}

// ToggleArchive flips the archive flag. Archiving a pinned note clears the
// pin in the same update; the second return value reports that unpin so
// the handler can say so explicitly.
func (s *Service) ToggleArchive(ctx context.Context, ownerID, noteID bson.ObjectID) (*Note, bool, error) {
	note, err := ownership.Resolve(ctx, s.repo, resourceKind, noteID, ownerID)
	if err != nil {
		return nil, false, err
	}

	archived := !note.IsArchived
	patch := NotePatch{IsArchived: &archived}

	unpinned := false
	if archived && note.IsPinned {
		pinned := false
		patch.IsPinned = &pinned
		unpinned = true
	}

	updated, err := s.repo.Update(ctx, noteID, patch)
	if err != nil {
		s.log.Error(ErrUpdateNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, false, ErrUpdateNote
	}

	return updated, unpinned, nil
}

// Duplicate clones a note under the next free copy name. The clone is
// unpinned and unarchived with a fresh id and fresh timestamps. The count
// and the insert are two independent operations; when two duplications
// race, the unique (owner_id, title) index rejects the loser as a
// Conflict rather than letting a colliding name through.
func (s *Service) Duplicate(ctx context.Context, ownerID, noteID bson.ObjectID) (*Note, error) {
	original, err := ownership.Resolve(ctx, s.repo, resourceKind, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	base := BaseTitle(original.Title)
	count, err := s.repo.CountTitleLike(ctx, ownerID, CopyCountPattern(base))
	if err != nil {
		s.log.Error(ErrDuplicateNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, ErrDuplicateNote
	}

	now := time.Now()
	dup := &Note{
		ID:        bson.NewObjectID(),
		OwnerID:   ownerID,
		Title:     CopyTitle(base, original.Title, count),
		Content:   original.Content,
		Color:     original.Color,
		Tags:      append([]string(nil), original.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, dup); err != nil {
		var conflict *fault.Conflict
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.log.Error(ErrDuplicateNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return nil, ErrDuplicateNote
	}

	return dup, nil
}

// Delete removes a note permanently. There is no recovery path.
func (s *Service) Delete(ctx context.Context, ownerID, noteID bson.ObjectID) error {
	if _, err := ownership.Resolve(ctx, s.repo, resourceKind, noteID, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, noteID); err != nil {
		s.log.Error(ErrDeleteNote.Error(), "error", err, "owner_id", ownerID.Hex(), "note_id", noteID.Hex())
		return ErrDeleteNote
	}

	return nil
}
