package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	errs "github.com/matzehuels/cardstack/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"cancelled", fmt.Errorf("render: %w", context.Canceled), ExitCancelled},
		{"bad index", errs.New(errs.ErrCodeInvalidIndex, "exposed index 9 out of range"), ExitInvalid},
		{"bad format", fmt.Errorf("run: %w", errs.New(errs.ErrCodeInvalidFormat, "gif")), ExitInvalid},
		{"missing deck", errs.New(errs.ErrCodeNotFound, "deck x not found"), ExitNotFound},
		{"plain error", errors.New("disk full"), ExitFailure},
		{"internal", errs.New(errs.ErrCodeInternal, "boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		notWant string
	}{
		{"coded", errs.New(errs.ErrCodeNotFound, "deck x not found"), "deck x not found", "NOT_FOUND"},
		{"coded with cause", errs.Wrap(errs.ErrCodeFileNotFound, errors.New("no such file"), "config file c.toml"), "config file c.toml: no such file", "FILE_NOT_FOUND"},
		{"wrapped coded", fmt.Errorf("load: %w", errs.New(errs.ErrCodeInvalidConfig, "bad")), "load: INVALID_CONFIG: bad", ""},
		{"plain", errors.New("disk full"), "disk full", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorMessage(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ErrorMessage() = %q, want it to contain %q", got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("ErrorMessage() = %q, should not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestLoadDeckMissingExitsNotFound(t *testing.T) {
	cfgPath, _ := writeTestConfig(t)
	err := execute(t, "--config", cfgPath, "deck", "show", "6f1d7c52-9a0e-4b8e-8a7c-1d2e3f4a5b6c")
	if got := ExitCode(err); got != ExitNotFound {
		t.Errorf("ExitCode(%v) = %d, want %d", err, got, ExitNotFound)
	}
}
