package config_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

func TestUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_enrollment_user_year"})
	constraint, ok := config.UniqueViolation(wrapped)
	if !ok || constraint != "idx_enrollment_user_year" {
		t.Errorf("want idx_enrollment_user_year, got %q (ok=%v)", constraint, ok)
	}

	if _, ok := config.UniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Error("foreign key violation reported as unique violation")
	}
	if !config.ForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation not detected")
	}
	if _, ok := config.UniqueViolation(errors.New("boom")); ok {
		t.Error("plain error reported as unique violation")
	}
}
