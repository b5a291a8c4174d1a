// Package logging provides logging utilities for arcrun.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("composing snakemake call", "scenario", name, "configs", files)
//	logging.Warn("solver license path unset", "var", "GRB_LICENSE_FILE")
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Merging configuration for %s...", name)
//	logging.UserSuccess("Job %s submitted", jobID)
//	logging.UserWarning("Lock directory %s is stale", dir)
//	logging.UserError("Scenario validation failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
