package notes

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the store operations the notes service relies on.
//
// FindByID loads by id alone so the ownership check can tell a missing
// note (NotFound) from somebody else's note (Forbidden). Create surfaces a
// unique-index violation on (owner_id, title) as *fault.Conflict.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Note, error)
	List(ctx context.Context, ownerID bson.ObjectID, search string) ([]*Note, error)
	ListArchived(ctx context.Context, ownerID bson.ObjectID) ([]*Note, error)
	Update(ctx context.Context, id bson.ObjectID, patch NotePatch) (*Note, error)
	CountTitleLike(ctx context.Context, ownerID bson.ObjectID, pattern string) (int64, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
