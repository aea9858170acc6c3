package cmd

import (
	"errors"
	"fmt"
	"testing"

	"svcreg/internal/registry"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion(testVersion)
	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
	if GetVersion() != testVersion {
		t.Errorf("Expected GetVersion to return %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "svcreg" {
		t.Errorf("Expected Use to be 'svcreg', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "circular dependency",
			err:  &registry.CircularDependencyError{Path: []string{"a", "b", "a"}},
			want: ExitCodeGraphError,
		},
		{
			name: "self dependency",
			err:  &registry.SelfDependencyError{Service: "a", Chain: []string{"a"}},
			want: ExitCodeGraphError,
		},
		{
			name: "ambiguous declaration",
			err:  &registry.AmbiguousDeclarationError{Service: "a"},
			want: ExitCodeGraphError,
		},
		{
			name: "initialization failure",
			err:  &registry.InitializationError{Service: "a", Cause: errors.New("boom")},
			want: ExitCodeInitFailed,
		},
		{
			name: "wrapped initialization failure",
			err:  fmt.Errorf("serve: %w", &registry.InitializationError{Service: "a", Cause: errors.New("boom")}),
			want: ExitCodeInitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
