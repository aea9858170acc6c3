package cmd

import (
	"errors"
	"os"

	"svcreg/internal/registry"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands. These give scripts a way to distinguish
// configuration bugs from runtime initialization failures.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeGraphError indicates a dependency declaration problem: a cycle,
	// a self dependency, or a conflicting declaration.
	ExitCodeGraphError = 2
	// ExitCodeInitFailed indicates a service's Setup or readiness probe failed.
	ExitCodeInitFailed = 3
)

// rootCmd represents the base command for the svcreg application.
var rootCmd = &cobra.Command{
	Use:   "svcreg",
	Short: "Service registry with dependency-ordered lazy initialization",
	Long: `svcreg runs a demo application on top of a process-wide service
registry. Services declare their dependencies up front and are initialized
lazily, in dependency order, on first use. The serve command exposes the
registry's state over HTTP; the plan command prints the initialization
order a target would use, without initializing anything.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It is called by
// main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "svcreg version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to semantic exit codes.
func getExitCode(err error) int {
	var cycle *registry.CircularDependencyError
	if errors.As(err, &cycle) {
		return ExitCodeGraphError
	}
	var selfDep *registry.SelfDependencyError
	if errors.As(err, &selfDep) {
		return ExitCodeGraphError
	}
	var ambiguous *registry.AmbiguousDeclarationError
	if errors.As(err, &ambiguous) {
		return ExitCodeGraphError
	}
	var initErr *registry.InitializationError
	if errors.As(err, &initErr) {
		return ExitCodeInitFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
