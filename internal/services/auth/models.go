package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account in the system. Its id, as an opaque hex
// string inside the JWT, is the owner identity every note and task is
// isolated by.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd0"`
	Email        string        `bson:"email" json:"email" example:"test@example.com"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}
