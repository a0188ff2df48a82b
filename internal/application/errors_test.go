package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}
	if got := (&ValidationError{FieldErrors: map[string]string{"field": "invalid"}}).Error(); got != "validation failed" {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	if base.HasErrors() {
		t.Fatal("expected empty error to report no issues")
	}
	base.add("first", "value")
	base.add("first", "ignored")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected first message to win, got %q", got)
	}

	base.merge(&ValidationError{FieldErrors: map[string]string{"second": "another"}})
	base.merge(nil)
	if len(base.FieldErrors) != 2 || !base.HasErrors() {
		t.Fatalf("unexpected fields %v", base.FieldErrors)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":            {nil, ""},
		"not found":      {fmt.Errorf("wrap: %w", ErrNotFound), "not_found"},
		"already exists": {ErrAlreadyExists, "already_exists"},
		"integrity":      {ErrDataIntegrity, "data_integrity"},
		"validation":     {fieldError("name", "name is required"), "validation"},
		"other":          {errors.New("boom"), "unexpected"},
	}
	for name, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("%s: ErrorKind = %q, want %q", name, got, tc.want)
		}
	}
}

func TestMapRepoError(t *testing.T) {
	t.Parallel()

	if err := mapRepoError(persistence.ErrNotFound, "name"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mapRepoError(fmt.Errorf("%w: UNIQUE", persistence.ErrDuplicate), "name"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	var vErr *ValidationError
	if err := mapRepoError(persistence.ErrConstraintViolation, "room_id"); !errors.As(err, &vErr) || vErr.FieldErrors["room_id"] == "" {
		t.Fatalf("expected validation error on room_id, got %v", err)
	}
	if err := mapRepoError(availability.ErrDataIntegrity, ""); !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	plain := errors.New("disk full")
	if err := mapRepoError(plain, ""); err != plain {
		t.Fatalf("expected unknown errors to pass through, got %v", err)
	}
}
