package main

// Notes:
// - fakeRunner never spawns processes. It answers the interpreter and
//   library probes, pip installs and renderer runs; a renderer run writes a
//   small PDF at the --output path unless noArtifact is set.
// - testEnv is non-interactive, so pickers and prompts behave as if
//   dismissed and notifications are printed as plain text.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// ---------------------------------------------------------------------------
// Command runner
// ---------------------------------------------------------------------------

type fakeRunner struct {
	mu            sync.Mutex
	calls         []nb2pdf.Command
	missingPython bool
	missingModule string
	noArtifact    bool
	renderStderr  string
	installErr    error
}

func (f *fakeRunner) Run(_ context.Context, c nb2pdf.Command) nb2pdf.Result {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	switch {
	case len(c.Args) == 1 && c.Args[0] == "--version":
		if f.missingPython {
			return nb2pdf.Result{ExitCode: -1, Err: errors.New(`exec: "` + c.Name + `": executable file not found in $PATH`)}
		}
		return nb2pdf.Result{Stdout: "Python 3.11.4\n"}
	case len(c.Args) == 2 && c.Args[0] == "-c":
		if f.missingModule != "" {
			return nb2pdf.Result{
				Stderr:   "ModuleNotFoundError: No module named '" + f.missingModule + "'",
				ExitCode: 1,
				Err:      errors.New("exit status 1"),
			}
		}
		return nb2pdf.Result{Stdout: "4.0.9\n"}
	case len(c.Args) >= 2 && c.Args[0] == "-m" && c.Args[1] == "pip":
		if f.installErr != nil {
			return nb2pdf.Result{Stderr: "ERROR: network unreachable\n", ExitCode: 1, Err: f.installErr}
		}
		return nb2pdf.Result{Stdout: "Successfully installed reportlab-4.0.9\n"}
	default:
		if !f.noArtifact {
			out := argValue(c.Args, "--output")
			_ = os.WriteFile(out, []byte("%PDF-1.4 test document"), 0o600)
		}
		if f.renderStderr != "" {
			return nb2pdf.Result{Stderr: f.renderStderr, ExitCode: 1, Err: errors.New("exit status 1")}
		}
		return nb2pdf.Result{}
	}
}

func (f *fakeRunner) rendererCalls() []nb2pdf.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []nb2pdf.Command
	for _, c := range f.calls {
		if len(c.Args) > 0 && c.Args[0] != "--version" && c.Args[0] != "-c" && c.Args[0] != "-m" {
			out = append(out, c)
		}
	}
	return out
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testIO struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
	opened *[]string
}

func newTestIO(t *testing.T) *testIO {
	t.Helper()
	var (
		stdout, stderr bytes.Buffer
		mu             sync.Mutex
		opened         []string
	)
	runner := &fakeRunner{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
		Runner: runner,
		Open: func(_ context.Context, target string) error {
			mu.Lock()
			defer mu.Unlock()
			opened = append(opened, target)
			return nil
		},
		TempDir: t.TempDir(),
	}
	return &testIO{env: env, stdout: &stdout, stderr: &stderr, runner: runner, opened: &opened}
}

// ---------------------------------------------------------------------------
// Workspace
// ---------------------------------------------------------------------------

// workspace is a temp dir holding a notebook, a renderer script and an
// explicit settings file.
type workspace struct {
	root     string
	notebook string
	script   string
	settings string
	history  string
}

func newWorkspace(t *testing.T, extraSettings string) workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace{
		root:     root,
		notebook: filepath.Join(root, "hw1.ipynb"),
		script:   filepath.Join(root, "nb2pdf.py"),
		settings: filepath.Join(root, "settings.yaml"),
		history:  filepath.Join(root, "state", "history.db"),
	}
	writeFile(t, ws.notebook, `{"cells": []}`)
	writeFile(t, ws.script, "# renderer\n")
	writeFile(t, ws.settings, "rendererScript: "+ws.script+"\nhistoryPath: "+ws.history+"\n"+extraSettings)
	return ws
}

// args prefixes args with the flags pointing at the workspace.
func (w workspace) args(args ...string) []string {
	return append([]string{"--settings", w.settings, "--workspace", w.root}, args...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
