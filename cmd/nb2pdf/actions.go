package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/guide"
)

// installTimeout bounds a pip install started from the action menu.
const installTimeout = 5 * time.Minute

var errUnsupportedAction = errors.New("unsupported action")

// actionRunner executes remediation actions chosen from a notification.
type actionRunner struct {
	env          *Environment
	settingsPath string
	guide        *guide.Renderer
}

func newActionRunner(env *Environment, settingsPath string) *actionRunner {
	return &actionRunner{env: env, settingsPath: settingsPath, guide: guide.NewRenderer()}
}

// Execute runs a. The install command runs in the foreground so its output
// is visible and finished before the CLI exits.
func (r *actionRunner) Execute(ctx context.Context, a nb2pdf.Action) error {
	switch a.Kind {
	case nb2pdf.ActionOpenURL, nb2pdf.ActionOpenFile:
		return r.env.Open(ctx, a.Target)
	case nb2pdf.ActionRevealFile:
		return r.env.Open(ctx, filepath.Dir(a.Target))
	case nb2pdf.ActionOpenSetting:
		fmt.Fprintf(r.env.Stdout, "Set %s in %s\n(or export NB2PDF_PYTHON, or pass --python)\n", a.Target, r.settingsPath)
		return nil
	case nb2pdf.ActionRunInTerminal:
		return r.install(ctx, a)
	case nb2pdf.ActionShowInstructions:
		return r.instructions(ctx, a)
	case nb2pdf.ActionShowDiagnostics:
		fmt.Fprintln(r.env.Stdout, a.Detail)
		return nil
	default:
		return fmt.Errorf("%w: %s", errUnsupportedAction, a.Kind)
	}
}

func (r *actionRunner) install(ctx context.Context, a nb2pdf.Action) error {
	if len(a.Command) == 0 {
		return nb2pdf.ErrEmptyCommand
	}
	fmt.Fprintf(r.env.Stdout, "$ %s\n", strings.Join(a.Command, " "))

	res := r.env.Runner.Run(ctx, nb2pdf.Command{
		Name:    a.Command[0],
		Args:    a.Command[1:],
		Timeout: installTimeout,
	})
	if res.Stdout != "" {
		fmt.Fprint(r.env.Stdout, res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(r.env.Stderr, res.Stderr)
	}
	if res.Err != nil {
		return fmt.Errorf("installing %s: %w", a.Target, res.Err)
	}
	fmt.Fprintf(r.env.Stdout, "%s installed. Run 'nb2pdf check' to verify.\n", a.Target)
	return nil
}

// instructions prints the manual install steps and, on a terminal, also
// opens them as a page.
func (r *actionRunner) instructions(ctx context.Context, a nb2pdf.Action) error {
	data := guide.Data{
		Module:             a.Target,
		InstallCommand:     strings.Join(a.Command, " "),
		TroubleshootingURL: nb2pdf.TroubleshootingURL,
	}
	if len(a.Command) > 0 {
		data.Interpreter = a.Command[0]
	}

	md, err := guide.Markdown(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.env.Stdout, md)

	if !r.env.Interactive {
		return nil
	}
	page, err := r.guide.WriteHTML(ctx, r.env.tempDir(), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.env.Stdout, "Instructions saved to %s\n", page)
	return r.env.Open(ctx, page)
}

// describe returns a one-line, non-interactive rendering of a.
// Empty means the action has nothing useful to print.
func (r *actionRunner) describe(a nb2pdf.Action) string {
	switch a.Kind {
	case nb2pdf.ActionOpenURL, nb2pdf.ActionOpenFile, nb2pdf.ActionRevealFile:
		return a.Target
	case nb2pdf.ActionOpenSetting:
		return "set " + a.Target + " in " + r.settingsPath
	case nb2pdf.ActionRunInTerminal:
		return strings.Join(a.Command, " ")
	default:
		return ""
	}
}
