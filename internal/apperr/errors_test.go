package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsSuperseded(t *testing.T) {
	if !IsSuperseded(fmt.Errorf("search: %w", ErrSuperseded)) {
		t.Fatalf("wrapped ErrSuperseded not detected")
	}
	if !IsSuperseded(context.Canceled) {
		t.Fatalf("context.Canceled must be treated as superseded")
	}
	if IsSuperseded(errors.New("boom")) {
		t.Fatalf("plain error treated as superseded")
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("trips: %w", UpstreamError{Service: "backend", Status: 502, Message: "No se pudieron cargar los viajes"})
	if got := UserMessage(err, "x"); got != "No se pudieron cargar los viajes" {
		t.Fatalf("message = %q", got)
	}
	if got := UserMessage(errors.New("boom"), "fallback"); got != "fallback" {
		t.Fatalf("fallback = %q", got)
	}
	if !IsUpstream(err) {
		t.Fatalf("IsUpstream = false")
	}
}

func TestValidationErrorSortedMessage(t *testing.T) {
	err := ValidationError{Fields: map[string]string{"fecha": "b", "destino": "a"}}
	if err.Error() != "destino: a; fecha: b" {
		t.Fatalf("error = %q", err.Error())
	}
	if !IsValidation(fmt.Errorf("wrap: %w", err)) {
		t.Fatalf("IsValidation = false")
	}
}
