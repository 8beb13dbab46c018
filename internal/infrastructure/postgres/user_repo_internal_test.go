package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestInsertError_EmailUniqueViolation(t *testing.T) {
	err := insertError(fmt.Errorf("scan user: %w", &pgconn.PgError{
		Code:           codeUniqueViolation,
		ConstraintName: constraintEmailKey,
	}))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestInsertError_OtherUniqueViolation(t *testing.T) {
	err := insertError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_pkey"})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		t.Error("primary key collision must not be reported as a duplicate email")
	}
}

func TestInsertError_OtherFailure(t *testing.T) {
	cause := errors.New("connection reset")
	err := insertError(cause)
	if !errors.Is(err, cause) {
		t.Errorf("want wrapped cause, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateEmail) {
		t.Error("generic failure reported as duplicate email")
	}
}
