package domain

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrDuplicateEmail        = errors.New("email already taken")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrTokenInvalid          = errors.New("token is invalid or expired")
	ErrMissingToken          = errors.New("missing bearer token")
	ErrUserNotFound          = errors.New("user not found")
	ErrInactiveAccount       = errors.New("account is inactive")
	ErrAccountCreationFailed = errors.New("account creation failed")
	ErrStorageFault          = errors.New("storage fault")
	ErrInvalidInput          = errors.New("invalid input")
)

const RoleUser = "user"

// DefaultRoles returns a fresh copy of the roles a new account starts with.
func DefaultRoles() []string {
	return []string{RoleUser}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the only user representation that leaves the service.
type PublicUser struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	IsActive bool     `json:"isActive"`
	Roles    []string `json:"roles"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		IsActive: u.IsActive,
		Roles:    slices.Clone(u.Roles),
	}
}

// Claims is the payload signed into an access token.
type Claims struct {
	ID string `json:"id"`
}
