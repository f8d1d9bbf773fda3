package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidErr("bad", nil), http.StatusBadRequest},
		{NotFoundErr("missing"), http.StatusNotFound},
		{UnauthorizedErr("nope"), http.StatusUnauthorized},
		{StorageErr("rejected", errors.New("fk"), true), http.StatusBadRequest},
		{StorageErr("rejected", errors.New("io"), false), http.StatusInternalServerError},
		{Wrap(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("ctx: %w", NotFoundErr("wrapped")), http.StatusNotFound},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWrapKeepsAppError(t *testing.T) {
	orig := NotFoundErr("product not found")
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Fatalf("expected original AppError back, got %v", got)
	}
	if Wrap(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(errors.New("secret dsn")); got != "unexpected error" {
		t.Fatalf("internal details leaked: %q", got)
	}
	if got := PublicMessage(InvalidErr("name is required", nil)); got != "name is required" {
		t.Fatalf("unexpected message %q", got)
	}
	if !Is(UnauthorizedErr("x"), Unauthorized) || Is(errors.New("x"), Unauthorized) {
		t.Fatalf("Is mismatch")
	}
}
