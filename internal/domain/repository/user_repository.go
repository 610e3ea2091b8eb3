package repository

import (
	"context"

	"github.com/mennyrose/Bunker-data/internal/domain/entity"
)

// UserRepository persists dashboard users.
type UserRepository interface {
	// Create inserts a user. Returns domain.ErrEmailAlreadyExists on a
	// duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
