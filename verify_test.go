package nb2pdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestVerifier_ChecksRunInOrder(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{handler: envOK(nil)}
	res := NewVerifier(runner, Settings{PythonPath: "/usr/bin/python3"}).Verify(context.Background())

	if !res.OK {
		t.Fatalf("Verify() not OK: %+v", res)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("got %d probe calls, want 2", len(runner.calls))
	}
	if runner.calls[0].Args[0] != "--version" {
		t.Errorf("first probe = %v, want --version", runner.calls[0].Args)
	}
	if runner.calls[1].Args[0] != "-c" || !strings.Contains(runner.calls[1].Args[1], "import reportlab") {
		t.Errorf("second probe = %v, want library import", runner.calls[1].Args)
	}
	for _, c := range runner.calls {
		if c.Name != "/usr/bin/python3" {
			t.Errorf("probe ran %q, want configured interpreter", c.Name)
		}
		if c.Timeout <= 0 {
			t.Error("probes should be bounded by a timeout")
		}
	}
	if res.InterpreterVersion != "Python 3.12.1" || res.LibraryVersion != "4.2.5" {
		t.Errorf("versions = %q, %q", res.InterpreterVersion, res.LibraryVersion)
	}
	if !strings.HasPrefix(res.Message, "All dependencies OK!") || !strings.Contains(res.Message, "reportlab: 4.2.5") {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v, want nil", res.Err())
	}
}

func TestVerifier_InterpreterMissingSkipsLibraryCheck(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{handler: func(c Command) Result {
		return Result{ExitCode: -1, Err: errors.New(`exec: "python3": executable file not found in $PATH`)}
	}}
	res := NewVerifier(runner, Settings{}).Verify(context.Background())

	if res.OK {
		t.Fatal("Verify() should fail")
	}
	if len(runner.calls) != 1 {
		t.Fatalf("got %d calls, library check must not run after interpreter failure", len(runner.calls))
	}
	if res.Category != CategoryInterpreterNotFound {
		t.Errorf("Category = %v", res.Category)
	}
	if !errors.Is(res.Err(), ErrInterpreterNotFound) {
		t.Errorf("Err() = %v, want ErrInterpreterNotFound", res.Err())
	}

	kinds := []ActionKind{ActionOpenURL, ActionOpenSetting}
	if len(res.Actions) != len(kinds) {
		t.Fatalf("got %d actions, want %d", len(res.Actions), len(kinds))
	}
	for i, k := range kinds {
		if res.Actions[i].Kind != k {
			t.Errorf("action %d kind = %v, want %v", i, res.Actions[i].Kind, k)
		}
	}
}

func TestVerifier_MissingLibrary(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{handler: func(c Command) Result {
		if c.Args[0] == "--version" {
			return Result{Stdout: "Python 3.11.4"}
		}
		return Result{
			Stderr:   "Traceback (most recent call last):\nModuleNotFoundError: No module named 'reportlab'\n",
			ExitCode: 1,
			Err:      errors.New("exit status 1"),
		}
	}}
	res := NewVerifier(runner, Settings{PythonPath: "py"}).Verify(context.Background())

	if res.Category != CategoryMissingDependency || res.Module != "reportlab" {
		t.Fatalf("got %v/%q, want missing reportlab", res.Category, res.Module)
	}
	if !errors.Is(res.Err(), ErrMissingDependency) {
		t.Errorf("Err() = %v", res.Err())
	}
	if len(res.Actions) != 3 || res.Actions[0].Kind != ActionRunInTerminal {
		t.Fatalf("Actions = %+v", res.Actions)
	}
	want := []string{"py", "-m", "pip", "install", "reportlab"}
	if strings.Join(res.Actions[0].Command, " ") != strings.Join(want, " ") {
		t.Errorf("install command = %v, want %v", res.Actions[0].Command, want)
	}
}

func TestVerifier_VersionOnStderr(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{handler: func(c Command) Result {
		if c.Args[0] == "--version" {
			return Result{Stderr: "Python 2.7.18\n"}
		}
		return Result{Stdout: "3.6\n"}
	}}
	res := NewVerifier(runner, Settings{}).Verify(context.Background())
	if res.InterpreterVersion != "Python 2.7.18" {
		t.Errorf("InterpreterVersion = %q", res.InterpreterVersion)
	}
}

func TestSettings_Interpreter(t *testing.T) {
	t.Parallel()

	if got := defaultInterpreter("windows"); got != "python" {
		t.Errorf("windows default = %q", got)
	}
	if got := defaultInterpreter("linux"); got != "python3" {
		t.Errorf("linux default = %q", got)
	}
	if got := (Settings{PythonPath: "/opt/py"}).Interpreter(); got != "/opt/py" {
		t.Errorf("override = %q", got)
	}
}

func TestSettings_Identity(t *testing.T) {
	t.Parallel()

	got := Settings{StudentName: "Ada", Course: ""}.Identity()
	want := IdentityConfig{
		StudentName: "Ada",
		RollNumber:  DefaultRollNumber,
		Course:      DefaultCourse,
		Assignment:  DefaultAssignment,
	}
	if got != want {
		t.Errorf("Identity() = %+v, want %+v", got, want)
	}
	if d := (Settings{}).EffectiveTimeout(); d != DefaultTimeout {
		t.Errorf("EffectiveTimeout() = %v, want %v", d, DefaultTimeout)
	}
}
