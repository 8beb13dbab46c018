package repository

import (
	"context"

	"github.com/ErlanBelekov/auth-service/internal/domain"
)

// UserRepository is the user store. Implementations enforce email uniqueness
// atomically on Insert and report a collision as domain.ErrDuplicateEmail.
// Lookups that match nothing return domain.ErrUserNotFound.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
}
