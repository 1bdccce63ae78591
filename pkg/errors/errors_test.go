package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := New(CodeGenerationFailure, "chat call failed", cause)

	msg := err.Error()
	if !strings.Contains(msg, "GENERATION_FAILURE") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New(CodePersistence, "save failed", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestWithContextChaining(t *testing.T) {
	err := New(CodeMalformedOutput, "bad payload", nil).
		WithContext("raw", "{oops").
		WithRecoverable(true)

	if err.Context["raw"] != "{oops" {
		t.Errorf("context not set: %v", err.Context)
	}
	if !err.Recoverable {
		t.Error("expected recoverable")
	}
}

func TestAsParleyError(t *testing.T) {
	if AsParleyError(nil) != nil {
		t.Error("nil should stay nil")
	}

	plain := stderrors.New("plain")
	wrapped := AsParleyError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected INTERNAL_ERROR wrap, got %s", wrapped.Code)
	}

	typed := New(CodeConfigError, "bad role", nil)
	if AsParleyError(typed) != typed {
		t.Error("typed error should pass through unchanged")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeConfigError, "unknown role", nil)
	if !IsCode(err, CodeConfigError) {
		t.Error("expected IsCode match")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("unexpected IsCode match")
	}
	if IsCode(stderrors.New("plain"), CodeConfigError) {
		t.Error("plain error should not match")
	}
}
