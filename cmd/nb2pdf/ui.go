package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/tui"
)

const (
	boxWidth       = 64
	maxPickerFiles = 500
)

// uiOptions configures a terminalUI.
type uiOptions struct {
	quiet   bool
	verbose bool
	noInput bool
	roots   []string
	active  string
	// out receives non-error notifications (stderr when stdout carries JSON).
	out io.Writer
}

// terminalUI provides the editor primitives the converter needs: the active
// document, a notebook picker, text prompts and notifications with an
// action menu.
type terminalUI struct {
	env     *Environment
	opts    uiOptions
	actions *actionRunner
}

// Compile-time interface implementation checks.
var (
	_ nb2pdf.EditorContext = (*terminalUI)(nil)
	_ nb2pdf.Picker        = (*terminalUI)(nil)
	_ nb2pdf.Prompter      = (*terminalUI)(nil)
	_ nb2pdf.Notifier      = (*terminalUI)(nil)
)

func newTerminalUI(env *Environment, settingsPath string, opts uiOptions) *terminalUI {
	if opts.out == nil {
		opts.out = env.Stdout
	}
	return &terminalUI{env: env, opts: opts, actions: newActionRunner(env, settingsPath)}
}

func (u *terminalUI) interactive() bool {
	return u.env.Interactive && !u.opts.noInput
}

// ActiveDocument implements nb2pdf.EditorContext.
func (u *terminalUI) ActiveDocument() string {
	return u.opts.active
}

// PickFile implements nb2pdf.Picker by listing notebooks under the
// workspace roots. Without a terminal nothing is picked.
func (u *terminalUI) PickFile(ctx context.Context, title, ext string) (string, error) {
	if !u.interactive() {
		return "", nil
	}

	var (
		files []string
		items []tui.Item
	)
	for _, root := range u.opts.roots {
		found, err := tui.FindFiles(root, ext, maxPickerFiles)
		if err != nil {
			return "", err
		}
		for _, f := range found {
			label, err := filepath.Rel(root, f)
			if err != nil {
				label = filepath.Base(f)
			}
			files = append(files, f)
			items = append(items, tui.Item{Label: label, Detail: root})
		}
	}
	if len(files) == 0 {
		fmt.Fprintf(u.env.Stderr, "no %s files under %s\n", ext, strings.Join(u.opts.roots, ", "))
		return "", nil
	}

	i, ok, err := tui.Choose(ctx, u.env.Stdin, u.env.Stdout, title, items)
	if err != nil || !ok {
		return "", err
	}
	return files[i], nil
}

// Prompt implements nb2pdf.Prompter. Without a terminal every prompt is
// dismissed.
func (u *terminalUI) Prompt(ctx context.Context, p nb2pdf.Prompt) (string, bool, error) {
	if !u.interactive() {
		return "", false, nil
	}
	return tui.Prompt(ctx, u.env.Stdin, u.env.Stdout, p.Label, p.Value, p.Placeholder)
}

// Notify implements nb2pdf.Notifier. Errors always reach stderr; --quiet
// hides the rest. The automatic action runs without asking; otherwise a
// terminal gets a menu and anything else a list of follow-ups.
func (u *terminalUI) Notify(ctx context.Context, n nb2pdf.Notification) {
	if n.Message == "" {
		return
	}

	if n.Level == nb2pdf.LevelError || !u.opts.quiet {
		w := u.opts.out
		if n.Level == nb2pdf.LevelError {
			w = u.env.Stderr
		}
		sev := severity(n.Level)
		if u.interactive() {
			fmt.Fprintln(w, tui.Box(sev, n.Message, boxWidth))
		} else {
			fmt.Fprintln(w, tui.Plain(sev, n.Message))
		}
	}

	if n.Auto != nil {
		u.execute(ctx, *n.Auto)
		return
	}
	if len(n.Actions) == 0 {
		return
	}
	if u.interactive() {
		u.menu(ctx, n.Actions)
		return
	}
	u.list(n)
}

func (u *terminalUI) menu(ctx context.Context, actions []nb2pdf.Action) {
	items := make([]tui.Item, len(actions))
	for i, a := range actions {
		items[i] = tui.Item{Label: a.Label, Detail: u.actions.describe(a)}
	}
	i, ok, err := tui.Choose(ctx, u.env.Stdin, u.env.Stdout, "What next? (esc to skip)", items)
	if err != nil {
		fmt.Fprintf(u.env.Stderr, "warning: %v\n", err)
		return
	}
	if ok {
		u.execute(ctx, actions[i])
	}
}

// list prints the follow-ups of n. Diagnostics of an error are always
// printed, those of a warning only with --verbose.
func (u *terminalUI) list(n nb2pdf.Notification) {
	w := u.opts.out
	isError := n.Level == nb2pdf.LevelError
	if isError {
		w = u.env.Stderr
	} else if u.opts.quiet {
		return
	}
	for _, a := range n.Actions {
		if a.Kind == nb2pdf.ActionShowDiagnostics && (isError || u.opts.verbose) {
			fmt.Fprintln(w, a.Detail)
			continue
		}
		if d := u.actions.describe(a); d != "" {
			fmt.Fprintf(w, "  %s: %s\n", a.Label, d)
		}
	}
}

func (u *terminalUI) execute(ctx context.Context, a nb2pdf.Action) {
	if err := u.actions.Execute(ctx, a); err != nil {
		fmt.Fprintf(u.env.Stderr, "warning: %s: %v\n", a.Label, err)
	}
}

func severity(l nb2pdf.Level) tui.Severity {
	switch l {
	case nb2pdf.LevelWarning:
		return tui.SeverityWarning
	case nb2pdf.LevelError:
		return tui.SeverityError
	default:
		return tui.SeverityInfo
	}
}
