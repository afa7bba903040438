// Package ownership implements the per-user resource isolation check.
// Every route that operates on a single existing resource resolves it
// through Resolve before any mutation runs.
package ownership

import (
	"context"
	"errors"

	"notedeck/internal/services/fault"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	Owner() bson.ObjectID
}

// Finder loads a resource by id regardless of owner. Repositories return
// *fault.NotFound when the id does not exist.
type Finder[T Owned] interface {
	FindByID(ctx context.Context, id bson.ObjectID) (T, error)
}

// Resolve loads the resource and confirms the caller owns it.
// A missing resource yields *fault.NotFound; an existing resource owned by
// a different user yields *fault.Forbidden, never NotFound, so a correctly
// authenticated caller can distinguish the two.
func Resolve[T Owned](ctx context.Context, f Finder[T], kind string, id, userID bson.ObjectID) (T, error) {
	var zero T

	res, err := f.FindByID(ctx, id)
	if err != nil {
		var nf *fault.NotFound
		if errors.As(err, &nf) {
			return zero, &fault.NotFound{Kind: kind}
		}
		return zero, err
	}

	if res.Owner() != userID {
		return zero, &fault.Forbidden{Kind: kind}
	}

	return res, nil
}
