package nb2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-nb2pdf/internal/process"
)

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 2 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string        // Working directory; empty = current
	Timeout time.Duration // Zero = bounded only by ctx
}

// String renders the command line with arguments quoted when needed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// Result is the captured outcome of a Command.
//
// Err is nil only for a zero exit. TimedOut is set when Command.Timeout
// expired; Err then wraps ErrCommandTimeout.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	TimedOut bool
	Duration time.Duration
}

// ErrorText joins stderr and the error message: the text failures are
// classified from.
func (r Result) ErrorText() string {
	var parts []string
	if s := strings.TrimSpace(r.Stderr); s != "" {
		parts = append(parts, s)
	}
	if r.Err != nil {
		parts = append(parts, r.Err.Error())
	}
	return strings.Join(parts, "\n")
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) Result
}

// ExecRunner implements CommandRunner using os/exec. The child runs in its own
// process group, killed as a whole on timeout or cancellation.
type ExecRunner struct{}

// Run executes cmd and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, c Command) Result {
	if c.Name == "" {
		return Result{ExitCode: -1, Err: ErrEmptyCommand}
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...) // #nosec G204 -- interpreter and script are user-configured
	cmd.Dir = c.Dir
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		return res
	case c.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		res.TimedOut = true
		res.ExitCode = -1
		res.Err = fmt.Errorf("%s: %w after %s", c.Name, ErrCommandTimeout, c.Timeout)
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%s interrupted: %w", c.Name, ctx.Err())
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		res.Err = fmt.Errorf("%s: %w", c.Name, err)
	}
	return res
}
