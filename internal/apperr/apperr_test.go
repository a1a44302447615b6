package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Invalid("bad id"), 400},
		{Conflict("video already in playlist"), 400},
		{Unauthenticated("missing token"), 401},
		{Forbidden("not the owner"), 403},
		{NotFound("video %s not found", "x"), 404},
		{RateLimited("too many requests"), 429},
		{Internal("query failed", errors.New("boom")), 500},
	}

	for _, c := range cases {
		if got := c.err.HTTPStatus(); got != c.want {
			t.Errorf("%q status = %d, want %d", c.err.Message, got, c.want)
		}
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	raw := errors.New("connection reset")
	ae := From(raw)

	if ae.Kind != KindInternal {
		t.Errorf("kind = %d, want KindInternal", ae.Kind)
	}
	if ae.Message != "internal server error" {
		t.Errorf("message %q leaks the raw error", ae.Message)
	}
	if !errors.Is(ae, raw) {
		t.Error("wrapped error lost")
	}
}

func TestFromPreservesTypedErrors(t *testing.T) {
	orig := NotFound("playlist not found")
	wrapped := fmt.Errorf("fetch: %w", orig)

	ae := From(wrapped)
	if ae != orig {
		t.Error("From should unwrap to the original *Error")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("nope"))
	if !IsKind(err, KindForbidden) {
		t.Error("IsKind missed wrapped Forbidden")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind matched the wrong kind")
	}
}
