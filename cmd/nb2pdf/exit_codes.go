package main

import (
	"errors"
	"os"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/config"
)

// Exit codes for nb2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess     = 0 // PDF produced (possibly with warnings)
	ExitGeneral     = 1 // General/unexpected error
	ExitUsage       = 2 // Invalid flags or settings
	ExitIO          = 3 // Nothing selected, prompt dismissed, renderer or files missing
	ExitEnvironment = 4 // Interpreter or required library missing
	ExitConversion  = 5 // Renderer ran and failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Environment errors (exit 4)
	if errors.Is(err, nb2pdf.ErrInterpreterNotFound) ||
		errors.Is(err, nb2pdf.ErrMissingDependency) {
		return ExitEnvironment
	}

	// Renderer failures (exit 5)
	if errors.Is(err, nb2pdf.ErrConversionFailed) {
		return ExitConversion
	}

	// I/O and resolution errors (exit 3)
	if errors.Is(err, nb2pdf.ErrNoSourceSelected) ||
		errors.Is(err, nb2pdf.ErrPromptDismissed) ||
		errors.Is(err, nb2pdf.ErrRendererScriptMissing) ||
		errors.Is(err, nb2pdf.ErrIncompletePaths) ||
		errors.Is(err, nb2pdf.ErrIdentityConfig) ||
		errors.Is(err, ErrNoOpener) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/settings errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, errNotInteractive) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
