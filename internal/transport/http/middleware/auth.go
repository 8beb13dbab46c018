package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/ErlanBelekov/auth-service/internal/metrics"
	"github.com/ErlanBelekov/auth-service/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// GuardState is a step of the per-request guard. A request moves forward
// through the states until it is Accepted or Rejected.
type GuardState int

const (
	StateNoToken GuardState = iota
	StateTokenExtracted
	StateVerified
	StateIdentityResolved
	StateAccepted
	StateRejected
)

func (s GuardState) String() string {
	switch s {
	case StateNoToken:
		return "no_token"
	case StateTokenExtracted:
		return "token_extracted"
	case StateVerified:
		return "verified"
	case StateIdentityResolved:
		return "identity_resolved"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// Rejection records the state the guard was in when it rejected a request.
type Rejection struct {
	From GuardState
	Err  error
}

func (r *Rejection) Error() string { return "rejected at " + r.From.String() + ": " + r.Err.Error() }
func (r *Rejection) Unwrap() error { return r.Err }

type tokenVerifier interface {
	Verify(raw string) (domain.Claims, error)
}

type identityResolver interface {
	FindByID(ctx context.Context, id string) (*domain.PublicUser, error)
}

// Guard turns an Authorization header into a trusted, active user.
type Guard struct {
	tokens tokenVerifier
	users  identityResolver
	logger *slog.Logger
}

func NewGuard(tokens tokenVerifier, users identityResolver, logger *slog.Logger) *Guard {
	return &Guard{
		tokens: tokens,
		users:  users,
		logger: logger.With("component", "guard"),
	}
}

// Authenticate runs the guard for one Authorization header value. Failures
// are *Rejection wrapping ErrMissingToken, ErrTokenInvalid, ErrUserNotFound,
// ErrInactiveAccount or a storage fault.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (*domain.PublicUser, error) {
	raw, ok := bearerToken(authorization)
	if !ok {
		return nil, &Rejection{From: StateNoToken, Err: domain.ErrMissingToken}
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, &Rejection{From: StateTokenExtracted, Err: domain.ErrTokenInvalid}
	}

	user, err := g.users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, &Rejection{From: StateVerified, Err: err}
	}

	if !user.IsActive {
		return nil, &Rejection{From: StateIdentityResolved, Err: domain.ErrInactiveAccount}
	}
	return user, nil
}

// Handler aborts with the same 401 for every rejection so callers cannot tell
// a bad token from a deleted or deactivated account.
func (g *Guard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, err := g.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			result := rejectionResult(err)
			metrics.GuardDecisionsTotal.WithLabelValues(result).Inc()
			if result == "error" {
				g.logger.ErrorContext(ctx, "guard rejected request", "error", err)
			} else {
				g.logger.DebugContext(ctx, "guard rejected request", "reason", result)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		metrics.GuardDecisionsTotal.WithLabelValues(StateAccepted.String()).Inc()
		c.Request = c.Request.WithContext(reqctx.WithUser(ctx, user))
		c.Next()
	}
}

// bearerToken accepts only "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || tok == "" {
		return "", false
	}
	return tok, true
}

func rejectionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid_token"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive_account"
	}
	return "error"
}
