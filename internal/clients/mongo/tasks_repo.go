package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notedeck/internal/logger"
	"notedeck/internal/services/fault"
	"notedeck/internal/services/tasks"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// TasksRepo implements the tasks.Repository interface for MongoDB.
type TasksRepo struct {
	collection *mongo.Collection
}

// NewTasksRepo creates a new tasks repository and ensures its indexes.
func NewTasksRepo(parentCtx context.Context, db *mongo.Database) (*TasksRepo, error) {
	collection := db.Collection("tasks")

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
				{Key: "due_date", Value: 1},
			},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "tasks")
				continue
			}
			logger.L().Error("failed to create index", "collection", "tasks", "error", err)
			return nil, fmt.Errorf("failed to create tasks collection index: %w", err)
		}
	}

	return &TasksRepo{
		collection: collection,
	}, nil
}

// Create inserts a new task. A unique-index violation comes back as
// *fault.Conflict naming the conflicting field.
func (r *TasksRepo) Create(ctx context.Context, task *tasks.Task) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, task)
	return translateDuplicateKey(err, "Task")
}

// FindByID loads a task by id alone, regardless of owner.
func (r *TasksRepo) FindByID(ctx context.Context, id bson.ObjectID) (*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var task tasks.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &fault.NotFound{Kind: "Task"}
		}
		return nil, err
	}

	return &task, nil
}

// List returns the owner's tasks sorted ascending by due date. Tasks
// without a due date follow Mongo's null-ordering and sort first; _id
// breaks remaining ties so the listing order is total.
func (r *TasksRepo) List(ctx context.Context, ownerID bson.ObjectID, filter tasks.ListFilter) ([]*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	query := bson.M{"owner_id": ownerID}
	if filter.IsCompleted != nil {
		query["is_completed"] = *filter.IsCompleted
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "due_date", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	tasksList := []*tasks.Task{}
	if err := cursor.All(ctx, &tasksList); err != nil {
		return nil, err
	}

	return tasksList, nil
}

// Update applies a completion/sub-task patch in a single atomic $set and
// returns the updated document.
func (r *TasksRepo) Update(ctx context.Context, id bson.ObjectID, patch tasks.TaskPatch) (*tasks.Task, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.IsCompleted != nil {
		set["is_completed"] = *patch.IsCompleted
	}
	if patch.SubTasks != nil {
		set["sub_tasks"] = *patch.SubTasks
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated tasks.Task
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &fault.NotFound{Kind: "Task"}
		}
		return nil, err
	}

	return &updated, nil
}

// Delete removes a task by id.
func (r *TasksRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return &fault.NotFound{Kind: "Task"}
	}

	return nil
}
