// Package memory holds an in-process user store for local development and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	order   []string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// emailKey folds case the same way the postgres lower(email) index does.
func emailKey(email string) string {
	return strings.ToLower(email)
}

func (r *UserRepository) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	key := emailKey(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[key]; taken {
		return nil, domain.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	stored := *user
	stored.ID = uuid.NewString()
	stored.Roles = slices.Clone(user.Roles)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byEmail[key] = stored.ID
	r.order = append(r.order, stored.ID)

	return clone(&stored), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, clone(r.byID[id]))
	}
	return users, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// SetActive flips the activation flag of an existing user.
func (r *UserRepository) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Ping always succeeds; it lets the store stand in for a database in health checks.
func (r *UserRepository) Ping(context.Context) error { return nil }

func clone(u *domain.User) *domain.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}
