package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("storage.backend", `unknown backend "redis"`)

	expected := `config error in storage.backend: unknown backend "redis"`
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("rule not found")
	err := NewCommandError("rules get", underlyingErr)

	expected := "command rules get failed: rule not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != "rules get" {
		t.Errorf("errors.As() = %v, want Command %q", cmdErr, "rules get")
	}
}

func TestNewCommandError_Nil(t *testing.T) {
	if err := NewCommandError("parse", nil); err != nil {
		t.Errorf("NewCommandError(nil) = %v, want nil", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"command", NewCommandError("eval", errors.New("boom")), ExitError},
		{"config", NewConfigError("output", "bad"), ExitConfig},
		{"wrapped config", fmt.Errorf("loading: %w", NewConfigError("server", "bad")), ExitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
