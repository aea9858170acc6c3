// Package logging provides a structured logging system for svcreg with
// unified log handling and flexible output formatting.
//
// This package implements a logging system built on Go's standard slog
// package, providing consistent logging behavior with structured output and
// level filtering.
//
// # Log Levels
//
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Structured Logging
//
// All log entries include a timestamp, the log level, a subsystem identifier
// for categorization, the message content with optional formatting, and
// optional error information.
//
// # Usage
//
//	import "svcreg/pkg/logging"
//
//	// Initialize with Info level logging to stdout
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stdout)
//
//	// Log messages
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("Registry", "Service %s declared before its dependencies", name)
//	logging.Error("Lifecycle", err, "Failed to initialize service %s", name)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration loading and validation
//   - **Registry**: Service declaration and readiness queries
//   - **Lifecycle**: Initialization chains and state transitions
//   - **Server**: HTTP readiness surface
package logging
