package main

// Notes:
// - runConvert is exercised end to end through runMain with a fakeRunner,
//   a real settings file, a real history database and a non-interactive
//   environment.
// - Interactive pickers and prompts are covered in internal/tui; here they
//   behave as dismissed.

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-nb2pdf/internal/history"
)

// ---------------------------------------------------------------------------
// TestConvert_Success - PDF written next to the notebook
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "studentName: Ada Lovelace\n")
	tio := newTestIO(t)

	code := runMain(append([]string{"nb2pdf", "convert"}, ws.args(ws.notebook)...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}

	pdf := filepath.Join(ws.root, "hw1.pdf")
	if !fileExists(pdf) {
		t.Fatalf("expected %s", pdf)
	}
	if got := tio.stdout.String(); !strings.Contains(got, "PDF created successfully: hw1.pdf (") {
		t.Errorf("stdout = %q", got)
	}
	if !strings.Contains(tio.stdout.String(), "Open PDF: "+pdf) {
		t.Errorf("follow-ups missing from stdout:\n%s", tio.stdout.String())
	}

	calls := tio.runner.rendererCalls()
	if len(calls) != 1 {
		t.Fatalf("renderer calls = %d, want 1", len(calls))
	}
	if calls[0].Args[0] != ws.script || calls[0].Args[1] != ws.notebook {
		t.Errorf("renderer args = %v", calls[0].Args)
	}
	if cfg := argValue(calls[0].Args, "--config"); fileExists(cfg) {
		t.Errorf("identity config %s left behind", cfg)
	}
}

func TestConvert_NotebookShorthand(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)

	code := runMain(append([]string{"nb2pdf", ws.notebook}, ws.args()...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}
	if !fileExists(filepath.Join(ws.root, "hw1.pdf")) {
		t.Error("shorthand should convert the notebook")
	}
}

func TestConvert_AutoOpen(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "autoOpenPdf: true\n")
	tio := newTestIO(t)

	if code := runMain(append([]string{"nb2pdf", "convert"}, ws.args(ws.notebook)...), tio.env); code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}
	want := filepath.Join(ws.root, "hw1.pdf")
	if len(*tio.opened) != 1 || (*tio.opened)[0] != want {
		t.Errorf("opened = %v, want [%s]", *tio.opened, want)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_CustomName - --name handling
// ---------------------------------------------------------------------------

func TestConvert_CustomName(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)

	code := runMain(append([]string{"nb2pdf", "convert", "--name=report"}, ws.args(ws.notebook)...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}
	if !fileExists(filepath.Join(ws.root, "report.pdf")) {
		t.Error("expected report.pdf")
	}
}

func TestConvert_NamePromptDismissed(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)

	code := runMain(append([]string{"nb2pdf", "convert", "--name"}, ws.args(ws.notebook)...), tio.env)
	if code != ExitIO {
		t.Fatalf("exit = %d, want ExitIO", code)
	}
	if !strings.Contains(tio.stdout.String(), "Conversion cancelled") {
		t.Errorf("stdout = %q", tio.stdout.String())
	}
	if n := len(tio.runner.rendererCalls()); n != 0 {
		t.Errorf("renderer calls = %d, want 0", n)
	}
	matches, _ := filepath.Glob(filepath.Join(ws.root, ".nb2pdf_config-*"))
	if len(matches) != 0 {
		t.Errorf("identity configs written: %v", matches)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Failures - Exit codes and messages
// ---------------------------------------------------------------------------

func TestConvert_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(r *fakeRunner)
		args       func(ws workspace) []string
		wantCode   int
		wantStderr []string
	}{
		{
			name:       "no notebook selected",
			args:       func(ws workspace) []string { return ws.args() },
			wantCode:   ExitIO,
			wantStderr: []string{"No notebook file selected"},
		},
		{
			name:       "python missing",
			setup:      func(r *fakeRunner) { r.missingPython = true },
			args:       func(ws workspace) []string { return ws.args(ws.notebook) },
			wantCode:   ExitEnvironment,
			wantStderr: []string{"Python not found!", "Download Python: https://www.python.org/downloads/", "hint:"},
		},
		{
			name:       "library missing",
			setup:      func(r *fakeRunner) { r.missingModule = "reportlab" },
			args:       func(ws workspace) []string { return ws.args(ws.notebook) },
			wantCode:   ExitEnvironment,
			wantStderr: []string{"Missing required library: reportlab", "-m pip install reportlab"},
		},
		{
			name: "syntax error in notebook",
			setup: func(r *fakeRunner) {
				r.noArtifact = true
				r.renderStderr = "  File \"<cell 3>\", line 1\nSyntaxError: invalid syntax"
			},
			args:       func(ws workspace) []string { return ws.args(ws.notebook) },
			wantCode:   ExitConversion,
			wantStderr: []string{"Syntax error in notebook: hw1.ipynb", "Open Notebook: "},
		},
		{
			name:       "renderer exits cleanly without pdf",
			setup:      func(r *fakeRunner) { r.noArtifact = true },
			args:       func(ws workspace) []string { return ws.args(ws.notebook) },
			wantCode:   ExitConversion,
			wantStderr: []string{"Conversion failed", "Get Help: https://github.com/ganesh250684/nb2pdf/issues"},
		},
		{
			name: "renderer traceback without pdf",
			setup: func(r *fakeRunner) {
				r.noArtifact = true
				r.renderStderr = "Traceback (most recent call last):\n  File \"<cell 2>\", line 1\nNameError: name 'x' is not defined"
			},
			args:       func(ws workspace) []string { return ws.args(ws.notebook) },
			wantCode:   ExitConversion,
			wantStderr: []string{"Conversion failed", "Traceback (most recent call last):", "NameError: name 'x' is not defined"},
		},
		{
			name:       "invalid timeout flag",
			args:       func(ws workspace) []string { return ws.args("--timeout", "soon", ws.notebook) },
			wantCode:   ExitUsage,
			wantStderr: []string{"invalid timeout"},
		},
		{
			name:       "two notebooks",
			args:       func(ws workspace) []string { return ws.args("a.ipynb", "b.ipynb") },
			wantCode:   ExitUsage,
			wantStderr: []string{"at most one notebook"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := newWorkspace(t, "")
			tio := newTestIO(t)
			if tt.setup != nil {
				tt.setup(tio.runner)
			}

			code := runMain(append([]string{"nb2pdf", "convert"}, tt.args(ws)...), tio.env)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d\nstderr: %s", code, tt.wantCode, tio.stderr.String())
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(tio.stderr.String(), want) {
					t.Errorf("stderr missing %q:\n%s", want, tio.stderr.String())
				}
			}
		})
	}
}

func TestConvert_WarningsStillSucceed(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)
	tio.runner.renderStderr = "UserWarning: font substituted"

	code := runMain(append([]string{"nb2pdf", "convert"}, ws.args(ws.notebook)...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}
	if !strings.Contains(tio.stdout.String(), "Some warnings were generated") {
		t.Errorf("stdout = %q", tio.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Outputs - JSON report, metrics file, history
// ---------------------------------------------------------------------------

func TestConvert_JSONReport(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)

	code := runMain(append([]string{"nb2pdf", "convert", "--json"}, ws.args(ws.notebook)...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}

	var got reportJSON
	if err := json.Unmarshal(tio.stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not a JSON report: %v\n%s", err, tio.stdout.String())
	}
	if got.Result != "success" || got.Stage != "done" || got.Category != "none" {
		t.Errorf("report = %+v", got)
	}
	if got.Output != filepath.Join(ws.root, "hw1.pdf") || got.SizeBytes == 0 || got.ID == "" {
		t.Errorf("report = %+v", got)
	}
	if !strings.Contains(tio.stderr.String(), "PDF created successfully") {
		t.Error("notification should move to stderr in JSON mode")
	}
}

func TestConvert_MetricsFile(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)
	metrics := filepath.Join(t.TempDir(), "nb2pdf.prom")

	code := runMain(append([]string{"nb2pdf", "convert", "--metrics-file", metrics}, ws.args(ws.notebook)...), tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `nb2pdf_conversions_total{category="none",result="success"} 1`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestConvert_RecordsHistory(t *testing.T) {
	t.Parallel()

	ws := newWorkspace(t, "")
	tio := newTestIO(t)

	runMain(append([]string{"nb2pdf", "convert"}, ws.args(ws.notebook)...), tio.env)
	tio.runner.missingModule = "reportlab"
	runMain(append([]string{"nb2pdf", "convert"}, ws.args(ws.notebook)...), tio.env)

	store, err := history.Open(context.Background(), ws.history)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	results := map[string]string{}
	for _, e := range entries {
		results[e.Result] = e.Category
	}
	if results["success"] != "none" || results["failure"] != "missing_dependency" {
		t.Errorf("results = %v", results)
	}
}

func TestConvert_HistoryOff(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	notebook := filepath.Join(root, "hw1.ipynb")
	script := filepath.Join(root, "nb2pdf.py")
	settings := filepath.Join(root, "settings.yaml")
	writeFile(t, notebook, "{}")
	writeFile(t, script, "#\n")
	writeFile(t, settings, "rendererScript: "+script+"\nhistoryPath: off\n")
	tio := newTestIO(t)

	code := runMain([]string{"nb2pdf", "convert", "--settings", settings, "--workspace", root, notebook}, tio.env)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr:\n%s", code, tio.stderr.String())
	}
	if strings.Contains(tio.stderr.String(), "history") {
		t.Errorf("unexpected history output: %s", tio.stderr.String())
	}
}

func TestConvert_MissingSettingsFile(t *testing.T) {
	t.Parallel()

	tio := newTestIO(t)
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	code := runMain([]string{"nb2pdf", "convert", "--settings", missing, "x.ipynb"}, tio.env)
	if code != ExitUsage {
		t.Errorf("exit = %d, want ExitUsage", code)
	}
	if !strings.Contains(tio.stderr.String(), "nb2pdf configure") {
		t.Errorf("stderr should hint at configure: %s", tio.stderr.String())
	}
}
