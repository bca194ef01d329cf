package nb2pdf

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Project links offered as remediation targets.
const (
	PythonDownloadURL  = "https://www.python.org/downloads/"
	InstallDocsURL     = "https://github.com/ganesh250684/nb2pdf#installation"
	TroubleshootingURL = "https://github.com/ganesh250684/nb2pdf/blob/main/EXTENSION_ERROR_FIX.md"
	IssueTrackerURL    = "https://github.com/ganesh250684/nb2pdf/issues"
	InstallPageURL     = "https://marketplace.visualstudio.com/items?itemName=ganesh-kumbhar.nb2pdf"
)

// SettingPythonPath is the settings key offered by the "Configure Path" action.
const SettingPythonPath = "pythonPath"

// ActionKind tells the caller how to carry out an Action.
type ActionKind int

// Action kinds.
const (
	ActionOpenURL          ActionKind = iota // Target is a URL
	ActionOpenSetting                        // Target is a settings key
	ActionRunInTerminal                      // Command is the argv to run interactively
	ActionShowInstructions                   // Target is the module; Command is the install argv
	ActionOpenFile                           // Target is a file path
	ActionRevealFile                         // Target is a file path whose folder is shown
	ActionShowDiagnostics                    // Detail is the text to display
)

var actionKindNames = map[ActionKind]string{
	ActionOpenURL:          "open_url",
	ActionOpenSetting:      "open_setting",
	ActionRunInTerminal:    "run_in_terminal",
	ActionShowInstructions: "show_instructions",
	ActionOpenFile:         "open_file",
	ActionRevealFile:       "reveal_file",
	ActionShowDiagnostics:  "show_diagnostics",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is a labelled remediation step. The library only describes actions;
// running them (and whether to wait for them) is the caller's decision.
type Action struct {
	Kind    ActionKind
	Label   string
	Target  string
	Command []string
	Detail  string
}

// ActionContext carries the request details actions are built from.
type ActionContext struct {
	Interpreter string
	Module      string
	SourcePath  string
	RawMessage  string
	Time        time.Time
}

// ActionsFor returns the remediation actions for a failure category.
// CategoryNone yields nil.
func ActionsFor(c Category, ac ActionContext) []Action {
	switch c {
	case CategoryInterpreterNotFound:
		return []Action{
			{Kind: ActionOpenURL, Label: "Download Python", Target: PythonDownloadURL},
			{Kind: ActionOpenSetting, Label: "Configure Path", Target: SettingPythonPath},
		}
	case CategoryMissingDependency:
		module := orDefault(ac.Module, RequiredLibrary)
		install := InstallCommand(ac.Interpreter, module)
		return []Action{
			{Kind: ActionRunInTerminal, Label: "Install " + module, Target: module, Command: install},
			{Kind: ActionShowInstructions, Label: "Manual Install", Target: module, Command: install},
			{Kind: ActionOpenURL, Label: "Learn More", Target: InstallDocsURL},
		}
	case CategorySourceDocumentError:
		return []Action{{Kind: ActionOpenFile, Label: "Open Notebook", Target: ac.SourcePath}}
	case CategoryTimeout:
		return []Action{{Kind: ActionOpenFile, Label: "View Notebook", Target: ac.SourcePath}}
	case CategoryRendererScriptMissing:
		return []Action{
			{Kind: ActionOpenURL, Label: "Reinstall", Target: InstallPageURL},
			{Kind: ActionOpenURL, Label: "Get Help", Target: IssueTrackerURL},
		}
	case CategoryUnknown:
		return []Action{
			{
				Kind:   ActionShowDiagnostics,
				Label:  "View Output",
				Detail: FormatDiagnostics(ac.Time, ac.SourcePath, ac.RawMessage),
			},
			{Kind: ActionOpenURL, Label: "Get Help", Target: IssueTrackerURL},
		}
	default:
		return nil
	}
}

// SuccessActions returns the actions offered once a PDF exists.
func SuccessActions(outputPath string) []Action {
	return []Action{
		{Kind: ActionOpenFile, Label: "Open PDF", Target: outputPath},
		{Kind: ActionRevealFile, Label: "Show in Folder", Target: outputPath},
	}
}

// InstallCommand returns the argv installing module with the interpreter's pip.
func InstallCommand(interpreter, module string) []string {
	if interpreter == "" {
		interpreter = defaultInterpreter("")
	}
	return []string{interpreter, "-m", "pip", "install", module}
}

const diagnosticsRule = "=================================================="

// FormatDiagnostics renders the block shown by the "View Output" action.
func FormatDiagnostics(now time.Time, sourcePath, raw string) string {
	var b strings.Builder
	b.WriteString(diagnosticsRule + "\n")
	b.WriteString("nb2pdf Conversion Error\n")
	b.WriteString(diagnosticsRule + "\n")
	fmt.Fprintf(&b, "Notebook: %s\n", filepath.Base(sourcePath))
	fmt.Fprintf(&b, "Path: %s\n", sourcePath)
	fmt.Fprintf(&b, "Time: %s\n", now.UTC().Format(time.RFC3339))
	b.WriteString("\nError Details:\n")
	b.WriteString(raw)
	b.WriteString("\n" + diagnosticsRule + "\n")
	return b.String()
}
