package nb2pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Level is the severity of a Notification.
type Level int

// Notification levels.
const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notification is the single user-visible message of a finished request.
type Notification struct {
	Level   Level
	Title   string
	Message string
	Actions []Action
	// Auto is run without asking when non-nil (autoOpenPdf).
	Auto *Action
}

// Notifier presents notifications and lets the user pick an action.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// discardNotifier drops notifications; used when none is configured.
type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, Notification) {}

// Messages shared by the CLI and tests.
const (
	MsgNoSourceSelected = "No notebook file selected"
	MsgCancelled        = "Conversion cancelled"
	MsgScriptMissing    = "nb2pdf.py script not found. Installation may be corrupted."
	MsgWarningsNote     = "(Note: Some warnings were generated but PDF is complete)"
	MsgIdentityUpdated  = "Student information updated!"
)

// FormatSize renders a byte count in KB with two decimals.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
}

// OutcomeNotification builds the notification for a renderer outcome.
func OutcomeNotification(o Outcome, source, interpreter string, autoOpen bool, now time.Time) Notification {
	if o.Succeeded() {
		n := Notification{
			Level:   LevelInfo,
			Title:   "PDF created",
			Message: fmt.Sprintf("PDF created successfully: %s (%s)", filepath.Base(o.OutputPath), FormatSize(o.SizeBytes)),
			Actions: SuccessActions(o.OutputPath),
		}
		if o.Kind == OutcomeSuccessWithWarnings {
			n.Level = LevelWarning
			n.Message += "\n\n" + MsgWarningsNote
		}
		if autoOpen {
			n.Auto = &n.Actions[0]
		}
		return n
	}

	ac := ActionContext{
		Interpreter: interpreter,
		Module:      o.Module,
		SourcePath:  source,
		RawMessage:  o.RawMessage,
		Time:        now,
	}
	return Notification{
		Level:   LevelError,
		Title:   "Conversion failed",
		Message: failureMessage(o.Category, o.Module, source),
		Actions: ActionsFor(o.Category, ac),
	}
}

func failureMessage(c Category, module, source string) string {
	switch c {
	case CategoryMissingDependency:
		return fmt.Sprintf("Missing Python library: %s\n\nRequired for PDF generation.", module)
	case CategorySourceDocumentError:
		return fmt.Sprintf("Syntax error in notebook: %s\n\nPlease fix Python errors in your notebook first.", filepath.Base(source))
	case CategoryTimeout:
		return "Conversion timed out\n\nYour notebook may have cells that take too long to execute."
	case CategoryInterpreterNotFound:
		return "Python not found!\n\nPlease install Python 3.8+ or configure the path."
	case CategoryRendererScriptMissing:
		return MsgScriptMissing
	default:
		return "Conversion failed\n\nSee the conversion output for details."
	}
}

// VerifyNotification builds the notification for an environment check.
func VerifyNotification(r VerifyResult) Notification {
	if r.OK {
		return Notification{Level: LevelInfo, Title: "Dependencies OK", Message: r.Message}
	}
	return Notification{Level: LevelError, Title: "Environment check failed", Message: r.Message, Actions: r.Actions}
}
