package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewError(t *testing.T) {
	err := New(ErrCodeUnplaceableCell, "no bel of type %q for cell %q", "SLICE", "ff0")

	if err.Code != ErrCodeUnplaceableCell {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeUnplaceableCell)
	}
	if !strings.Contains(err.Message, "ff0") {
		t.Errorf("Message %q should contain cell name", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause should be nil for New, got %v", err.Cause)
	}
	if !strings.HasPrefix(err.Error(), string(ErrCodeUnplaceableCell)) {
		t.Errorf("Error() = %q should start with the code", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("toml: line 3: expected value")
	err := Wrap(ErrCodeInvalidDesign, cause, "parsing %q", "design.toml")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Error() = %q should include the cause", err.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct match", New(ErrCodeUnsatisfiableChain, "chain at ff0"), ErrCodeUnsatisfiableChain, true},
		{"code mismatch", New(ErrCodeUnsatisfiableChain, "chain at ff0"), ErrCodeUnplaceableCell, false},
		{"wrapped in fmt", fmt.Errorf("place: %w", New(ErrCodeUnplaceableCell, "ff0")), ErrCodeUnplaceableCell, true},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidConstraint, "cycle through ff0")); got != ErrCodeInvalidConstraint {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidConstraint)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeUnknownCell, "cell %q not in netlist", "ff9")
	if got := UserMessage(err); strings.Contains(got, string(ErrCodeUnknownCell)) {
		t.Errorf("UserMessage %q should not include the code prefix", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
