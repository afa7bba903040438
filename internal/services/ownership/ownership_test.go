package ownership

import (
	"context"
	"errors"
	"testing"

	"notedeck/internal/services/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type testResource struct {
	id      bson.ObjectID
	ownerID bson.ObjectID
}

func (r *testResource) Owner() bson.ObjectID {
	return r.ownerID
}

type stubFinder struct {
	resource *testResource
	err      error
}

func (f *stubFinder) FindByID(_ context.Context, _ bson.ObjectID) (*testResource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resource, nil
}

func TestResolveOwnedResource(t *testing.T) {
	owner := bson.NewObjectID()
	resource := &testResource{id: bson.NewObjectID(), ownerID: owner}
	finder := &stubFinder{resource: resource}

	got, err := Resolve(context.Background(), finder, "Note", resource.id, owner)

	require.NoError(t, err)
	assert.Same(t, resource, got)
}

func TestResolveMissingResource(t *testing.T) {
	finder := &stubFinder{err: &fault.NotFound{Kind: "record"}}

	_, err := Resolve(context.Background(), finder, "Note", bson.NewObjectID(), bson.NewObjectID())

	var nf *fault.NotFound
	require.ErrorAs(t, err, &nf)
	// the caller's kind wins over whatever the repository tagged
	assert.Equal(t, "Note", nf.Kind)
}

func TestResolveForeignResource(t *testing.T) {
	resource := &testResource{id: bson.NewObjectID(), ownerID: bson.NewObjectID()}
	finder := &stubFinder{resource: resource}

	_, err := Resolve(context.Background(), finder, "Task", resource.id, bson.NewObjectID())

	var fb *fault.Forbidden
	require.ErrorAs(t, err, &fb)
	assert.Equal(t, "Task", fb.Kind)

	var nf *fault.NotFound
	assert.False(t, errors.As(err, &nf), "foreign resources must not read as missing")
}

func TestResolvePassesStoreErrorsThrough(t *testing.T) {
	storeErr := errors.New("connection reset")
	finder := &stubFinder{err: storeErr}

	_, err := Resolve(context.Background(), finder, "Note", bson.NewObjectID(), bson.NewObjectID())

	assert.ErrorIs(t, err, storeErr)
}
