package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Note is a user-owned note. The (owner_id, title) pair is unique per user,
// enforced by the store, and a note is never pinned and archived at once.
type Note struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	OwnerID    bson.ObjectID `bson:"owner_id" json:"ownerId" example:"683cdb8aa96ad71e8e075bd0"`
	Title      string        `bson:"title" json:"title" example:"Shopping"`
	Content    string        `bson:"content" json:"content" example:"Milk, eggs, bread"`
	Color      string        `bson:"color" json:"color" example:"#FFD700"`
	IsPinned   bool          `bson:"is_pinned" json:"isPinned"`
	IsArchived bool          `bson:"is_archived" json:"isArchived"`
	Tags       []string      `bson:"tags" json:"tags" example:"groceries,home"`
	CreatedAt  time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Owner implements ownership.Owned.
func (n *Note) Owner() bson.ObjectID {
	return n.OwnerID
}

// NotePatch carries the flags a toggle may change. Nil means untouched.
type NotePatch struct {
	IsPinned   *bool
	IsArchived *bool
}
