// Package errors provides typed errors with exit codes for arcrun.
//
// # Error Types
//
// RunError is the base error type that wraps an error with an exit code:
//
//	type RunError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess         = 0  // Success
//	ExitGeneralError    = 1  // General/unknown errors
//	ExitMissingScenario = 2  // No scenario argument given
//	ExitUnknownScenario = 3  // Scenario not in the registry
//	ExitConfigInvalid   = 4  // Scenario configuration failed validation
//	ExitProvisionFailed = 5  // Environment builder failure
//	ExitSubmitFailed    = 6  // sbatch submission failure
//	ExitWorkdirLocked   = 7  // Workflow directory locked by a dead run
//	ExitNetworkError    = 8  // Network table load/filter/write failure
//
// Exit codes from the external workflow engine are propagated unmodified via
// ExternalExit; they are not remapped into the categories above.
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.UnknownScenario("coal-heavy", known)
//	errors.ConfigInvalid("focus_weights", err)
//	errors.ProvisionFailed("create", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
