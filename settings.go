package nb2pdf

import (
	"runtime"
	"time"
)

// DefaultTimeout bounds one renderer run. Notebooks are executed by the
// renderer, so slow cells count against it.
const DefaultTimeout = 60 * time.Second

// RequiredLibrary is the Python module the renderer imports to lay out PDFs.
const RequiredLibrary = "reportlab"

// Identity defaults used when a settings field is empty.
const (
	DefaultStudentName = "Your Full Name"
	DefaultRollNumber  = "21f1234567"
	DefaultCourse      = "IITM BS Degree - Data Science"
	DefaultAssignment  = "Assignment Title"
)

// RendererScriptName is the file name searched for in bundled and workspace locations.
const RendererScriptName = "nb2pdf.py"

// Settings is the read-only configuration snapshot for one request.
// Empty fields mean "use the default".
type Settings struct {
	PythonPath     string
	StudentName    string
	RollNumber     string
	Course         string
	Assignment     string
	AutoOpenPDF    bool
	Timeout        time.Duration
	RendererScript string
}

// Interpreter returns the configured interpreter, or the platform default:
// "python" on Windows, "python3" elsewhere.
func (s Settings) Interpreter() string {
	if s.PythonPath != "" {
		return s.PythonPath
	}
	return defaultInterpreter(runtime.GOOS)
}

func defaultInterpreter(goos string) string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// Identity returns the identity fields with defaults applied.
func (s Settings) Identity() IdentityConfig {
	return IdentityConfig{
		StudentName: orDefault(s.StudentName, DefaultStudentName),
		RollNumber:  orDefault(s.RollNumber, DefaultRollNumber),
		Course:      orDefault(s.Course, DefaultCourse),
		Assignment:  orDefault(s.Assignment, DefaultAssignment),
	}
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (s Settings) EffectiveTimeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
