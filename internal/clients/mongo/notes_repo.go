package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"notedeck/internal/logger"
	"notedeck/internal/services/fault"
	"notedeck/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NotesRepo implements the notes.Repository interface for MongoDB.
type NotesRepo struct {
	collection *mongo.Collection
}

// NewNotesRepo creates a new notes repository and ensures its indexes.
// The unique (owner_id, title) index is the correctness backstop for
// duplicate titles; the listing index covers the pinned-first ordering.
func NewNotesRepo(parentCtx context.Context, db *mongo.Database) (*NotesRepo, error) {
	collection := db.Collection("notes")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "title", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "is_archived", Value: 1},
				{Key: "is_pinned", Value: -1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "notes")
				continue
			}
			logger.L().Error("failed to create index", "collection", "notes", "error", err)
			return nil, fmt.Errorf("failed to create notes collection index: %w", err)
		}
	}

	return &NotesRepo{
		collection: collection,
	}, nil
}

// Create inserts a new note. A unique-index violation comes back as
// *fault.Conflict naming the conflicting field.
func (r *NotesRepo) Create(ctx context.Context, note *notes.Note) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, note)
	return translateDuplicateKey(err, "Note")
}

// FindByID loads a note by id alone, regardless of owner, so the caller
// can distinguish not-found from not-owned.
func (r *NotesRepo) FindByID(ctx context.Context, id bson.ObjectID) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var note notes.Note
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &fault.NotFound{Kind: "Note"}
		}
		return nil, err
	}

	return &note, nil
}

// List returns the owner's non-archived notes, pinned first and then
// newest first, with _id as the final tie-break for a stable total order.
// A search term matches title, content, or any tag, case-insensitively.
func (r *NotesRepo) List(ctx context.Context, ownerID bson.ObjectID, search string) ([]*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "is_archived": false}
	if search != "" {
		pattern := regexp.QuoteMeta(search)
		regex := bson.M{"$regex": pattern, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"content": regex},
			bson.M{"tags": regex},
		}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	return r.findAll(ctx, filter, opts)
}

// ListArchived returns the owner's archived notes, newest first.
func (r *NotesRepo) ListArchived(ctx context.Context, ownerID bson.ObjectID) ([]*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "is_archived": true}
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	return r.findAll(ctx, filter, opts)
}

func (r *NotesRepo) findAll(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*notes.Note, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	notesList := []*notes.Note{}
	if err := cursor.All(ctx, &notesList); err != nil {
		return nil, err
	}

	return notesList, nil
}

// Update applies a flag patch in a single atomic $set and returns the
// updated document.
func (r *NotesRepo) Update(ctx context.Context, id bson.ObjectID, patch notes.NotePatch) (*notes.Note, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.IsPinned != nil {
		set["is_pinned"] = *patch.IsPinned
	}
	if patch.IsArchived != nil {
		set["is_archived"] = *patch.IsArchived
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated notes.Note
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &fault.NotFound{Kind: "Note"}
		}
		return nil, err
	}

	return &updated, nil
}

// CountTitleLike counts the owner's notes whose title matches the given
// anchored regex pattern. Used by the duplicate-naming rule.
func (r *NotesRepo) CountTitleLike(ctx context.Context, ownerID bson.ObjectID, pattern string) (int64, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{
		"owner_id": ownerID,
		"title":    bson.M{"$regex": pattern},
	})
}

// Delete removes a note by id.
func (r *NotesRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return &fault.NotFound{Kind: "Note"}
	}

	return nil
}
