package inventory

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsByKind(t *testing.T) {
	err := fmt.Errorf("failed to build: %w", NewInputMissingError("vars.yml", errors.New("no such file")))

	if !IsInputMissing(err) {
		t.Error("Expected wrapped error to be input_missing")
	}
	if IsNotFound(err) || IsMalformed(err) || IsInvalidArgument(err) {
		t.Error("Expected other kinds not to match")
	}
}

func TestError_Message(t *testing.T) {
	err := NewHostNotFoundError("web9")
	if err.Error() != "host not found: web9" {
		t.Errorf("Unexpected message: %q", err.Error())
	}

	wrapped := NewInputMissingError("hosts.yml", errors.New("permission denied"))
	if wrapped.Error() != "can't open file: hosts.yml: permission denied" {
		t.Errorf("Unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("Expected Unwrap to expose the cause")
	}
}
