package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromPassesThroughTypedError(t *testing.T) {
	orig := NotFound("group not found")
	wrapped := fmt.Errorf("open round: %w", orig)

	got := From(wrapped)
	if got != orig {
		t.Fatalf("From: want the wrapped *Error back, got %+v", got)
	}
	if got.Status != http.StatusNotFound || got.Code != CodeNotFound {
		t.Fatalf("status/code: got %d/%s", got.Status, got.Code)
	}
}

func TestFromWrapsUnknownErrorAsPersistence(t *testing.T) {
	got := From(errors.New("connection refused"))
	if got.Status != http.StatusInternalServerError || got.Code != CodePersistence {
		t.Fatalf("status/code: got %d/%s", got.Status, got.Code)
	}
	if got.Error() != "connection refused" {
		t.Fatalf("message: got %q", got.Error())
	}
}

func TestFromNil(t *testing.T) {
	if got := From(nil); got != nil {
		t.Fatalf("From(nil): want nil got %+v", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := New(http.StatusConflict, CodeNothingToReverse, sentinel)
	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is: want true")
	}
}
