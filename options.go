package nb2pdf

import (
	"io"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// WithRunner sets the command runner used for probes and the renderer.
func WithRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithEditor sets the source of the active document.
func WithEditor(e EditorContext) Option {
	return func(c *Converter) {
		c.resolver.Editor = e
	}
}

// WithPicker sets the interactive notebook picker.
func WithPicker(p Picker) Option {
	return func(c *Converter) {
		c.resolver.Picker = p
	}
}

// WithPrompter sets the interactive text prompt.
func WithPrompter(p Prompter) Option {
	return func(c *Converter) {
		c.resolver.Prompter = p
	}
}

// WithNotifier sets where notifications go. Without one they are dropped.
func WithNotifier(n Notifier) Option {
	return func(c *Converter) {
		c.notifier = n
	}
}

// WithWorkspaceRoots sets the workspace roots: fallback renderer locations,
// and the first one holds the identity config.
func WithWorkspaceRoots(roots ...string) Option {
	return func(c *Converter) {
		c.resolver.WorkspaceRoots = roots
	}
}

// WithBundledScripts replaces the bundled renderer candidates.
// The default is BundledScriptCandidates for the running executable.
func WithBundledScripts(paths ...string) Option {
	return func(c *Converter) {
		c.resolver.BundledScripts = paths
		c.bundledSet = true
	}
}

// WithTimeout sets the renderer timeout, overriding Settings.Timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("nb2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.timeout = d
	}
}

// WithNow sets the clock used for diagnostics timestamps and durations.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// WithLog enables stage-by-stage diagnostic lines on w.
func WithLog(w io.Writer) Option {
	return func(c *Converter) {
		c.log = w
	}
}

// WithObserver adds an observer called with every finished request.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		c.observers = append(c.observers, o)
	}
}
