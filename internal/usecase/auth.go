package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/ErlanBelekov/auth-service/internal/email"
	"github.com/ErlanBelekov/auth-service/internal/metrics"
	"github.com/ErlanBelekov/auth-service/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const welcomeTimeout = 10 * time.Second

var validate = validator.New(validator.WithRequiredStructEnabled())

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type tokenIssuer interface {
	Issue(c domain.Claims) (string, error)
}

type CreateAccountInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
	Name     string `validate:"required,min=8"`
}

// AuthResult is returned by every operation that mints a token.
type AuthResult struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenIssuer
	mailer email.Sender
	logger *slog.Logger

	// compared against when the email is unknown so both login failures cost one hash check
	decoyHash string
}

// NewAuthUsecase wires the service. mailer may be nil to disable welcome emails.
// It fails when the hasher cannot produce the decoy hash used for unknown emails.
func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenIssuer, mailer email.Sender, logger *slog.Logger) (*AuthUsecase, error) {
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}
	return &AuthUsecase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		logger:    logger.With("component", "auth_usecase"),
		decoyHash: decoy,
	}, nil
}

// CreateAccount hashes the password and stores a new active user with the
// default roles.
func (u *AuthUsecase) CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.PublicUser, error) {
	if err := validate.Struct(in); err != nil {
		metrics.AccountsCreatedTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	hash, err := u.hashPassword(in.Password)
	if err != nil {
		metrics.AccountsCreatedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Insert(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		IsActive:     true,
		Roles:        domain.DefaultRoles(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.AccountsCreatedTotal.WithLabelValues("duplicate_email").Inc()
			return nil, domain.ErrDuplicateEmail
		}
		metrics.AccountsCreatedTotal.WithLabelValues("error").Inc()
		return nil, storageFault("insert user", err)
	}
	metrics.AccountsCreatedTotal.WithLabelValues("created").Inc()

	if u.mailer != nil {
		go u.sendWelcome(context.WithoutCancel(ctx), created.Email, created.Name)
	}

	pub := created.Public()
	return &pub, nil
}

// Login checks the password against the stored hash and issues a token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.verifyPassword(password, u.decoyHash)
			u.logger.InfoContext(ctx, "login rejected", "reason", "unknown email")
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, storageFault("find user by email", err)
	}

	if !u.verifyPassword(password, user.PasswordHash) {
		u.logger.InfoContext(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := u.IssueTokenFor(domain.Claims{ID: user.ID})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return &AuthResult{User: user.Public(), Token: tok}, nil
}

// Register creates the account, then re-reads it by email before issuing a
// token. A store that accepted the write but cannot serve it back yields
// ErrAccountCreationFailed.
func (u *AuthUsecase) Register(ctx context.Context, in CreateAccountInput) (*AuthResult, error) {
	created, err := u.CreateAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	stored, err := u.users.FindByEmail(ctx, created.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.logger.ErrorContext(ctx, "created user not readable", "user_id", created.ID)
			return nil, domain.ErrAccountCreationFailed
		}
		return nil, storageFault("refetch created user", err)
	}

	tok, err := u.IssueTokenFor(domain.Claims{ID: stored.ID})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: *created, Token: tok}, nil
}

func (u *AuthUsecase) FindByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageFault("find user by id", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (u *AuthUsecase) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, storageFault("list users", err)
	}
	out := make([]domain.PublicUser, 0, len(users))
	for _, user := range users {
		out = append(out, user.Public())
	}
	return out, nil
}

// IssueTokenFor mints a fresh token for an already-authenticated principal.
func (u *AuthUsecase) IssueTokenFor(c domain.Claims) (string, error) {
	tok, err := u.tokens.Issue(c)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

func (u *AuthUsecase) hashPassword(password string) (string, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return u.hasher.Hash(password)
}

func (u *AuthUsecase) verifyPassword(password, hash string) bool {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return u.hasher.Verify(password, hash)
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, to, name string) {
	ctx, cancel := context.WithTimeout(ctx, welcomeTimeout)
	defer cancel()

	subject, body := email.Welcome(name)
	if err := u.mailer.Send(ctx, to, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email", "error", err)
	}
}

// storageFault hides the store error from callers; its text is kept for logs.
func storageFault(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageFault, op, err)
}
