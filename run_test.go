package nb2pdf

// Notes:
// - RunRenderer is exercised with mockRunner; the handler plays the renderer
//   and decides whether an artifact exists when the process "exits".

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testPaths(t *testing.T) ResolvedPaths {
	t.Helper()
	dir := t.TempDir()
	return ResolvedPaths{
		SourcePath:         filepath.Join(dir, "hw1.ipynb"),
		OutputPath:         filepath.Join(dir, "hw1.pdf"),
		RendererScriptPath: filepath.Join(dir, "scripts", RendererScriptName),
		InterpreterPath:    "python3",
	}
}

func TestRendererCommand(t *testing.T) {
	t.Parallel()

	p := ResolvedPaths{
		SourcePath:         "/w/hw1.ipynb",
		OutputPath:         "/w/out.pdf",
		RendererScriptPath: "/opt/nb2pdf/scripts/nb2pdf.py",
		InterpreterPath:    "/usr/bin/python3",
	}
	c := RendererCommand(p, "/w/.cfg.json", 90*time.Second)

	want := "/usr/bin/python3 /opt/nb2pdf/scripts/nb2pdf.py /w/hw1.ipynb --output /w/out.pdf --config /w/.cfg.json"
	if c.String() != want {
		t.Errorf("command = %s\nwant      %s", c.String(), want)
	}
	if c.Dir != "/opt/nb2pdf/scripts" {
		t.Errorf("Dir = %q, want script directory", c.Dir)
	}
	if c.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
}

func TestRunRenderer_Outcomes(t *testing.T) {
	t.Parallel()

	exitErr := errors.New("exit status 1")

	tests := []struct {
		name       string
		artifact   string // "" = none written
		result     Result
		wantKind   OutcomeKind
		wantCat    Category
		wantModule string
	}{
		{
			name:     "clean exit with artifact",
			artifact: "%PDF-1.4 content",
			result:   Result{},
			wantKind: OutcomeSuccess,
		},
		{
			name:     "clean exit without artifact is a failure",
			result:   Result{},
			wantKind: OutcomeFailure,
			wantCat:  CategoryUnknown,
		},
		{
			name:     "non-zero exit with artifact downgrades to warnings",
			artifact: "%PDF-1.4 content",
			result:   Result{Stderr: "DeprecationWarning: x", ExitCode: 1, Err: exitErr},
			wantKind: OutcomeSuccessWithWarnings,
		},
		{
			name:     "timeout with artifact downgrades to warnings",
			artifact: "%PDF",
			result:   Result{TimedOut: true, ExitCode: -1, Err: ErrCommandTimeout},
			wantKind: OutcomeSuccessWithWarnings,
		},
		{
			name:       "non-zero exit classified",
			result:     Result{Stderr: "ModuleNotFoundError: No module named 'nbformat'", ExitCode: 1, Err: exitErr},
			wantKind:   OutcomeFailure,
			wantCat:    CategoryMissingDependency,
			wantModule: "nbformat",
		},
		{
			name:     "timeout without artifact",
			result:   Result{TimedOut: true, ExitCode: -1, Err: errors.New("python3: command timed out after 1m0s")},
			wantKind: OutcomeFailure,
			wantCat:  CategoryTimeout,
		},
		{
			name:     "syntax error",
			result:   Result{Stderr: "SyntaxError: invalid syntax", ExitCode: 1, Err: exitErr},
			wantKind: OutcomeFailure,
			wantCat:  CategorySourceDocumentError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			paths := testPaths(t)
			runner := &mockRunner{handler: func(c Command) Result {
				if tt.artifact != "" {
					writeArtifact(t, c, tt.artifact)
				}
				return tt.result
			}}

			got := RunRenderer(context.Background(), runner, paths, "/tmp/cfg.json", time.Second)

			if got.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v (%+v)", got.Kind, tt.wantKind, got)
			}
			if got.Category != tt.wantCat {
				t.Errorf("Category = %v, want %v", got.Category, tt.wantCat)
			}
			if got.Module != tt.wantModule {
				t.Errorf("Module = %q, want %q", got.Module, tt.wantModule)
			}
			if got.Succeeded() {
				if got.SizeBytes != int64(len(tt.artifact)) {
					t.Errorf("SizeBytes = %d, want %d", got.SizeBytes, len(tt.artifact))
				}
				if got.OutputPath != paths.OutputPath {
					t.Errorf("OutputPath = %q", got.OutputPath)
				}
			} else if got.RawMessage == "" {
				t.Error("failure should carry the raw message")
			}
		})
	}
}

func TestRunRenderer_EmptyArtifactIsNotSuccess(t *testing.T) {
	t.Parallel()

	paths := testPaths(t)
	runner := &mockRunner{handler: func(c Command) Result {
		writeArtifact(t, c, "")
		return Result{Stderr: "reportlab crashed", ExitCode: 1, Err: errors.New("exit status 1")}
	}}

	got := RunRenderer(context.Background(), runner, paths, "cfg.json", time.Second)
	if got.Kind != OutcomeFailure {
		t.Errorf("Kind = %v, an empty artifact must not count as a PDF", got.Kind)
	}
}

func TestRunRenderer_WarningTextKept(t *testing.T) {
	t.Parallel()

	paths := testPaths(t)
	runner := &mockRunner{handler: func(c Command) Result {
		writeArtifact(t, c, "%PDF")
		return Result{Stderr: "UserWarning: font fallback\n", ExitCode: 2, Err: errors.New("exit status 2")}
	}}

	got := RunRenderer(context.Background(), runner, paths, "cfg.json", time.Second)
	if !strings.Contains(got.WarningText, "font fallback") {
		t.Errorf("WarningText = %q", got.WarningText)
	}
}

func TestRunRenderer_DefaultTimeout(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	RunRenderer(context.Background(), runner, testPaths(t), "cfg.json", 0)
	if runner.calls[0].Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", runner.calls[0].Timeout, DefaultTimeout)
	}
}
