package repository

import (
	"context"

	"github.com/oksasatya/restaurant-review-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// CreateOrUpdate inserts the user or, when the username exists, replaces
	// its password hash and scope grants. Unknown scope names are ignored.
	CreateOrUpdate(ctx context.Context, in UserUpsert) (*entity.User, error)
	// Signup inserts a new enabled user holding only users:me.
	Signup(ctx context.Context, username, passwordHash string) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
}

// UserUpsert is the input of CreateOrUpdate. A nil Disabled leaves an
// existing user's flag unchanged and creates new users enabled.
type UserUpsert struct {
	Username     string
	PasswordHash string
	Scopes       []string
	Disabled     *bool
}
