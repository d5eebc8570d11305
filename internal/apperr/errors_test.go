package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToFiberStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("interval too short: %w", ErrValidation), fiber.StatusBadRequest},
		{fmt.Errorf("journey: %w", ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("journey closed: %w", ErrConflict), fiber.StatusConflict},
		{fmt.Errorf("pg: %w", ErrUnavailable), fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := ToFiber(tc.err); got.Code != tc.status {
			t.Fatalf("err %v: got status %d want %d", tc.err, got.Code, tc.status)
		}
	}
}

func TestStoreClassifiesUnavailable(t *testing.T) {
	if Store(nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	base := errors.New("connection refused")
	wrapped := Store(base)
	if !errors.Is(wrapped, ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", wrapped)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected original error in chain, got %v", wrapped)
	}
	if ToFiber(wrapped).Code != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 mapping")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(errors.New("nope")) {
		t.Fatalf("plain error should not match")
	}
	pgErr := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", pgErr)) {
		t.Fatalf("duplicate key error should match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("fk violation should not match")
	}
}
