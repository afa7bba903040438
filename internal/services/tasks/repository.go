package tasks

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the store operations the tasks service relies on.
//
// List returns tasks sorted ascending by due date with the store's own
// null-ordering for tasks that have none; the priority re-sort is the
// service's job. Create surfaces a unique-index violation on
// (owner_id, title) as *fault.Conflict.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Task, error)
	List(ctx context.Context, ownerID bson.ObjectID, filter ListFilter) ([]*Task, error)
	Update(ctx context.Context, id bson.ObjectID, patch TaskPatch) (*Task, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
