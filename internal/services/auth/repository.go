package auth

import "context"

// UsersRepo defines the interface for user repository operations.
type UsersRepo interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
