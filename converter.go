package nb2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-nb2pdf/internal/hints"
)

// Converter orchestrates notebook conversions.
// Create with NewConverter; a Converter is safe to reuse across requests.
type Converter struct {
	settings   Settings
	runner     CommandRunner
	resolver   Resolver
	bundledSet bool
	notifier   Notifier
	timeout    time.Duration
	now        func() time.Time
	log        io.Writer
	observers  []Observer
}

// NewConverter creates a Converter for the given settings snapshot.
func NewConverter(settings Settings, opts ...Option) *Converter {
	c := &Converter{
		settings: settings,
		runner:   &ExecRunner{},
		notifier: discardNotifier{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if !c.bundledSet {
		exe, _ := os.Executable()
		c.resolver.BundledScripts = BundledScriptCandidates(settings.RendererScript, exe)
	}
	if c.timeout <= 0 {
		c.timeout = settings.EffectiveTimeout()
	}
	return c
}

// Convert runs one request through the pipeline. Every return path emits
// exactly one notification; errors wrap ErrAborted together with the
// sentinel of the failing stage.
func (c *Converter) Convert(ctx context.Context, req ConversionRequest) (*Report, error) {
	r := &Report{ID: uuid.NewString(), Request: req, Started: c.now()}
	err := c.convert(ctx, r)
	r.Err = err
	r.Duration = c.now().Sub(r.Started)

	c.notifier.Notify(ctx, r.Notification)
	for _, o := range c.observers {
		o.ObserveConversion(r)
	}
	c.logf("%s: %s after %s", r.Stage, r.Result(), r.Duration.Round(time.Millisecond))
	return r, err
}

func (c *Converter) convert(ctx context.Context, r *Report) error {
	py := absInterpreter(c.settings.Interpreter())

	// Environment
	r.Stage = StageVerify
	r.Verify = c.verify(ctx)
	if !r.Verify.OK && ctx.Err() != nil {
		r.Outcome = Outcome{Kind: OutcomeFailure}
		r.Notification = Notification{Level: LevelInfo, Message: MsgCancelled}
		return c.abort(ctx.Err(), "")
	}
	if !r.Verify.OK {
		r.Outcome = Outcome{
			Kind:       OutcomeFailure,
			Category:   r.Verify.Category,
			Module:     r.Verify.Module,
			RawMessage: r.Verify.Detail,
		}
		r.Notification = VerifyNotification(r.Verify)
		return c.abort(r.Verify.Err(), verifyHint(r.Verify, c.settings.PythonPath))
	}

	// Source
	r.Stage = StageResolveSource
	source, err := c.resolver.ResolveSource(ctx, r.Request.SourcePath)
	if err != nil {
		return c.stop(ctx, r, err, MsgNoSourceSelected)
	}
	if source, err = filepath.Abs(source); err != nil {
		return c.fail(r, err)
	}
	r.Paths.SourcePath = source
	c.logf("source: %s", source)

	// Output
	r.Stage = StageResolveOutput
	output, err := c.resolver.ResolveOutput(ctx, source, r.Request)
	if err != nil {
		return c.stop(ctx, r, err, MsgCancelled)
	}
	if output, err = filepath.Abs(output); err != nil {
		return c.fail(r, err)
	}
	r.Paths.OutputPath = output
	c.logf("output: %s", output)

	// Renderer script
	r.Stage = StageResolveScript
	script, searched, err := c.resolver.ResolveRendererScript()
	if err != nil {
		r.Outcome = Outcome{Kind: OutcomeFailure, Category: CategoryRendererScriptMissing, RawMessage: err.Error()}
		r.Notification = Notification{
			Level:   LevelError,
			Title:   "Renderer missing",
			Message: MsgScriptMissing,
			Actions: ActionsFor(CategoryRendererScriptMissing, ActionContext{}),
		}
		return c.abort(err, hints.ForRendererScript(searched))
	}
	if script, err = filepath.Abs(script); err != nil {
		return c.fail(r, err)
	}
	r.Paths.RendererScriptPath = script
	r.Paths.InterpreterPath = py
	c.logf("renderer: %s", script)

	if err := r.Paths.Validate(); err != nil {
		return c.fail(r, err)
	}

	// Identity config + run
	r.Stage = StageIdentityConfig
	dir, err := ConfigDir(c.resolver.WorkspaceRoots)
	if err != nil {
		return c.fail(r, err)
	}
	configPath, cleanup, err := BuildIdentityConfig(c.settings, dir)
	if err != nil {
		return c.fail(r, err)
	}

	r.Stage = StageRun
	c.logf("run: %s (timeout %s)", RendererCommand(r.Paths, configPath, c.timeout), c.timeout)
	r.Outcome = c.run(ctx, r.Paths, configPath, cleanup)
	if !r.Outcome.Succeeded() && ctx.Err() != nil {
		r.Notification = Notification{Level: LevelInfo, Message: MsgCancelled}
		return c.abort(ctx.Err(), "")
	}
	r.Notification = OutcomeNotification(r.Outcome, source, py, c.settings.AutoOpenPDF, c.now())

	if r.Outcome.Succeeded() {
		r.Stage = StageDone
		if r.Outcome.Kind == OutcomeSuccessWithWarnings {
			c.logf("renderer warnings:\n%s", r.Outcome.WarningText)
		}
		return nil
	}
	return c.abort(outcomeErr(r.Outcome), outcomeHint(r.Outcome, py, c.settings.PythonPath))
}

// run executes the renderer and removes the identity config before returning.
func (c *Converter) run(ctx context.Context, paths ResolvedPaths, configPath string, cleanup func()) Outcome {
	defer cleanup()
	return RunRenderer(ctx, c.runner, paths, configPath, c.timeout)
}

// Check verifies the environment and always notifies, including on success.
func (c *Converter) Check(ctx context.Context) VerifyResult {
	res := c.verify(ctx)
	c.notifier.Notify(ctx, VerifyNotification(res))
	return res
}

func (c *Converter) verify(ctx context.Context) VerifyResult {
	start := c.now()
	res := NewVerifier(c.runner, c.settings).Verify(ctx)
	if res.OK {
		c.logf("verify: %s (%s), %s %s [%s]", res.InterpreterPath, res.InterpreterVersion,
			RequiredLibrary, res.LibraryVersion, c.now().Sub(start).Round(time.Millisecond))
	} else {
		c.logf("verify: %s", res.Category)
	}
	return res
}

// stop handles a resolution error. A cancelled context or a dismissed prompt
// gets an informational notification, anything else an error one.
func (c *Converter) stop(ctx context.Context, r *Report, err error, cancelMsg string) error {
	if ctx.Err() != nil {
		r.Outcome = Outcome{Kind: OutcomeFailure}
		r.Notification = Notification{Level: LevelInfo, Message: MsgCancelled}
		return c.abort(ctx.Err(), "")
	}
	if errors.Is(err, ErrNoSourceSelected) || errors.Is(err, ErrPromptDismissed) {
		level := LevelInfo
		if errors.Is(err, ErrNoSourceSelected) {
			level = LevelError
		}
		r.Outcome = Outcome{Kind: OutcomeFailure}
		r.Notification = Notification{Level: level, Message: cancelMsg}
		return c.abort(err, "")
	}
	return c.fail(r, err)
}

// fail reports an unexpected error as an unknown failure.
func (c *Converter) fail(r *Report, err error) error {
	r.Outcome = Outcome{Kind: OutcomeFailure, Category: CategoryUnknown, RawMessage: err.Error()}
	r.Notification = Notification{
		Level:   LevelError,
		Title:   "Conversion failed",
		Message: "nb2pdf error: " + err.Error(),
		Actions: []Action{{Kind: ActionOpenURL, Label: "Get Help", Target: IssueTrackerURL}},
	}
	return c.abort(err, "")
}

func (c *Converter) abort(err error, hint string) error {
	return fmt.Errorf("%w: %w%s", ErrAborted, err, hint)
}

func (c *Converter) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	fmt.Fprintf(c.log, "nb2pdf: "+format+"\n", args...)
}

// outcomeErr maps a failed outcome to its sentinel.
func outcomeErr(o Outcome) error {
	switch o.Category {
	case CategoryMissingDependency:
		return fmt.Errorf("%w: %s", ErrMissingDependency, o.Module)
	case CategoryInterpreterNotFound:
		return ErrInterpreterNotFound
	default:
		return fmt.Errorf("%w: %s", ErrConversionFailed, o.Category)
	}
}

func outcomeHint(o Outcome, interpreter, configured string) string {
	switch o.Category {
	case CategoryMissingDependency:
		return hints.ForMissingDependency(interpreter, o.Module)
	case CategoryTimeout:
		return hints.ForTimeout()
	case CategoryInterpreterNotFound:
		return hints.ForInterpreter(configured)
	default:
		return ""
	}
}

func verifyHint(r VerifyResult, configured string) string {
	if r.Category == CategoryMissingDependency {
		return hints.ForMissingDependency(r.InterpreterPath, r.Module)
	}
	return hints.ForInterpreter(configured)
}
