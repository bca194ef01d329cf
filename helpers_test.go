package nb2pdf

// Notes:
// - Shared fakes for the package tests. mockRunner never spawns processes:
//   the renderer is simulated by a handler that writes (or does not write)
//   the artifact at the --output path.
// - envOK answers both verification probes successfully and delegates any
//   other command to the renderer handler.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Command runner
// ---------------------------------------------------------------------------

type mockRunner struct {
	mu      sync.Mutex
	calls   []Command
	handler func(Command) Result
}

func (m *mockRunner) Run(_ context.Context, c Command) Result {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if m.handler == nil {
		return Result{}
	}
	return m.handler(c)
}

func (m *mockRunner) rendererCalls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Command
	for _, c := range m.calls {
		if !isProbe(c) {
			out = append(out, c)
		}
	}
	return out
}

func isProbe(c Command) bool {
	return len(c.Args) > 0 && (c.Args[0] == "--version" || c.Args[0] == "-c")
}

// envOK answers the verification probes and hands renderer commands to render.
func envOK(render func(Command) Result) func(Command) Result {
	return func(c Command) Result {
		switch {
		case len(c.Args) == 1 && c.Args[0] == "--version":
			return Result{Stdout: "Python 3.12.1\n"}
		case len(c.Args) == 2 && c.Args[0] == "-c":
			return Result{Stdout: "4.2.5\n"}
		case render != nil:
			return render(c)
		default:
			return Result{}
		}
	}
}

// argValue returns the argument following flag.
func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// writeArtifact simulates the renderer writing the PDF.
func writeArtifact(t *testing.T, c Command, content string) {
	t.Helper()
	out := argValue(c.Args, "--output")
	if out == "" {
		t.Fatalf("renderer command has no --output: %v", c.Args)
	}
	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}
}

// ---------------------------------------------------------------------------
// UI fakes
// ---------------------------------------------------------------------------

type fakeEditor struct{ doc string }

func (f fakeEditor) ActiveDocument() string { return f.doc }

type fakePicker struct {
	path   string
	err    error
	called bool
	ext    string
}

func (f *fakePicker) PickFile(_ context.Context, _ string, ext string) (string, error) {
	f.called = true
	f.ext = ext
	return f.path, f.err
}

type fakePrompter struct {
	answers []promptAnswer
	prompts []Prompt
}

type promptAnswer struct {
	text string
	ok   bool
}

func (f *fakePrompter) Prompt(_ context.Context, p Prompt) (string, bool, error) {
	f.prompts = append(f.prompts, p)
	if len(f.answers) == 0 {
		return "", false, nil
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a.text, a.ok, nil
}

type recordingNotifier struct {
	got []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.got = append(r.got, n)
}

// ---------------------------------------------------------------------------
// Workspace
// ---------------------------------------------------------------------------

// testWorkspace creates a root holding a notebook and a renderer script.
func testWorkspace(t *testing.T) (root, notebook, script string) {
	t.Helper()
	root = t.TempDir()
	notebook = filepath.Join(root, "hw1.ipynb")
	script = filepath.Join(root, RendererScriptName)
	for _, p := range []string{notebook, script} {
		if err := os.WriteFile(p, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root, notebook, script
}

// identityConfigs lists identity config files left in dir.
func identityConfigs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), identityConfigPrefix) {
			out = append(out, e.Name())
		}
	}
	return out
}
