package nb2pdf

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// probeTimeout bounds each verification probe. Interpreter start-up is fast;
// a probe that takes longer is treated as a failed check.
const probeTimeout = 15 * time.Second

// libraryProbe imports the required library and prints its version.
var libraryProbe = "import " + RequiredLibrary + "; print(" + RequiredLibrary + ".Version)"

// VerifyResult reports the environment state.
type VerifyResult struct {
	OK                 bool
	InterpreterPath    string
	InterpreterVersion string
	LibraryVersion     string
	Category           Category // CategoryNone when OK
	Module             string   // Set for CategoryMissingDependency
	Message            string
	Detail             string // Captured probe error text
	Actions            []Action
}

// Err returns the sentinel matching the failed check, or nil when OK.
func (r VerifyResult) Err() error {
	switch r.Category {
	case CategoryNone:
		return nil
	case CategoryInterpreterNotFound:
		return fmt.Errorf("%w: %s", ErrInterpreterNotFound, r.InterpreterPath)
	case CategoryMissingDependency:
		return fmt.Errorf("%w: %s", ErrMissingDependency, r.Module)
	default:
		return fmt.Errorf("environment check failed: %s", r.Category)
	}
}

// Verifier checks that the interpreter runs and the rendering library imports.
type Verifier struct {
	Runner   CommandRunner
	Settings Settings
}

// NewVerifier creates a Verifier. A nil runner uses ExecRunner.
func NewVerifier(runner CommandRunner, settings Settings) *Verifier {
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Verifier{Runner: runner, Settings: settings}
}

// Verify runs the interpreter probe, then the library probe. The library
// probe is skipped when the interpreter probe fails.
func (v *Verifier) Verify(ctx context.Context) VerifyResult {
	py := v.Settings.Interpreter()
	res := VerifyResult{InterpreterPath: py}

	version := v.Runner.Run(ctx, Command{Name: py, Args: []string{"--version"}, Timeout: probeTimeout})
	if version.Err != nil {
		res.Category = CategoryInterpreterNotFound
		res.Message = "Python not found!\n\nPlease install Python 3.8+ or configure the path."
		res.Detail = version.ErrorText()
		res.Actions = ActionsFor(CategoryInterpreterNotFound, ActionContext{Interpreter: py})
		return res
	}
	res.InterpreterVersion = firstLine(version.Stdout, version.Stderr)

	lib := v.Runner.Run(ctx, Command{Name: py, Args: []string{"-c", libraryProbe}, Timeout: probeTimeout})
	if lib.Err != nil {
		module := RequiredLibrary
		if c := Classify(lib.ErrorText()); c.Category == CategoryMissingDependency {
			module = c.Module
		}
		res.Category = CategoryMissingDependency
		res.Module = module
		res.Message = "Missing required library: " + module + "\n\nThis Python library is required to generate PDFs."
		res.Detail = lib.ErrorText()
		res.Actions = ActionsFor(CategoryMissingDependency, ActionContext{Interpreter: py, Module: module})
		return res
	}
	res.LibraryVersion = firstLine(lib.Stdout)

	res.OK = true
	res.Message = fmt.Sprintf("All dependencies OK!\n\nPython: %s\n%s: %s", py, RequiredLibrary, res.LibraryVersion)
	return res
}

// firstLine returns the first non-empty trimmed line across outputs.
// Python 2 and some 3.x builds print --version to stderr.
func firstLine(outputs ...string) string {
	for _, out := range outputs {
		for line := range strings.SplitSeq(out, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				return s
			}
		}
	}
	return ""
}
