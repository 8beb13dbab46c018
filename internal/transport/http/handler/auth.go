package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/ErlanBelekov/auth-service/internal/reqctx"
	"github.com/ErlanBelekov/auth-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	CreateAccount(ctx context.Context, in usecase.CreateAccountInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	Register(ctx context.Context, in usecase.CreateAccountInput) (*usecase.AuthResult, error)
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
	IssueTokenFor(c domain.Claims) (string, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type createAccountRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name"     binding:"required,min=8"`
}

func (r createAccountRequest) input() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{Email: r.Email, Password: r.Password, Name: r.Name}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth
func (h *AuthHandler) Create(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authUsecase.CreateAccount(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, "create account", req.Email, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// POST /auth/login
// Unknown email and wrong password get the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "login", req.Email, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.authUsecase.Register(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, "register", req.Email, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// GET /auth (guarded)
func (h *AuthHandler) List(c *gin.Context) {
	users, err := h.authUsecase.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, "list users", "", err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /auth/check-token (guarded)
// Returns the guard's user with a freshly minted token.
func (h *AuthHandler) CheckToken(c *gin.Context) {
	user := reqctx.User(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	tok, err := h.authUsecase.IssueTokenFor(domain.Claims{ID: user.ID})
	if err != nil {
		h.writeError(c, "check token", "", err)
		return
	}

	c.JSON(http.StatusOK, usecase.AuthResult{User: *user, Token: tok})
}

func (h *AuthHandler) writeError(c *gin.Context, op, email string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(errEmailTaken, email)})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
