// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForInterpreter returns hints for an interpreter that failed its --version probe.
func ForInterpreter(configured string) string {
	if configured == "" {
		return format("install Python 3.8+ or set pythonPath (NB2PDF_PYTHON)")
	}
	return format("check that pythonPath " + configured + " points to a Python 3.8+ interpreter")
}

// ForMissingDependency returns the install command for a missing module.
// Suggests --user when running outside a virtual environment in a container,
// where site-packages are usually read-only.
func ForMissingDependency(interpreter, module string) string {
	hint := "run: " + interpreter + " -m pip install " + module
	if IsInContainer() && os.Getenv("VIRTUAL_ENV") == "" {
		hint += " (add --user if site-packages is read-only)"
	}
	return format(hint)
}

// ForTimeout returns a hint about increasing timeout for slow notebooks.
func ForTimeout() string {
	return format("for long-running notebooks, use --timeout flag or NB2PDF_TIMEOUT")
}

// ForRendererScript returns hints for a renderer script that was not found.
func ForRendererScript(searchedPaths []string) string {
	var hints []string
	if len(searchedPaths) > 0 {
		hints = append(hints, "searched "+strings.Join(searchedPaths, ", "))
	}
	hints = append(hints, "set rendererScript or NB2PDF_RENDERER")
	return formatHints(hints)
}

// ForSettingsNotFound returns hints for a missing settings file.
func ForSettingsNotFound(path string) string {
	return format("run 'nb2pdf configure' to create " + path)
}

// ForOpen returns hints when no desktop opener is available.
func ForOpen(path string) string {
	if IsInContainer() {
		return format("running in a container; copy " + path + " to the host to view it")
	}
	return format("open " + path + " manually")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
