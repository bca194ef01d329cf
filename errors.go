package nb2pdf

import "errors"

// Sentinel errors for conversion operations.
var (
	// ErrAborted marks every error returned after the user was already notified.
	ErrAborted = errors.New("conversion aborted")

	// Environment errors.
	ErrInterpreterNotFound = errors.New("python interpreter not found")
	ErrMissingDependency   = errors.New("missing python dependency")

	// Path resolution errors.
	ErrNoSourceSelected      = errors.New("no notebook file selected")
	ErrPromptDismissed       = errors.New("output name prompt dismissed")
	ErrRendererScriptMissing = errors.New("renderer script not found")
	ErrIncompletePaths       = errors.New("resolved paths incomplete")

	// Identity config errors.
	ErrIdentityConfig = errors.New("failed to write identity config")

	// Process errors.
	ErrConversionFailed = errors.New("conversion failed")
	ErrCommandTimeout   = errors.New("command timed out")
	ErrEmptyCommand     = errors.New("command name cannot be empty")
)
