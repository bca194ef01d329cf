package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/fileutil"
	"github.com/alnah/go-nb2pdf/internal/hints"
)

// checkResult holds all diagnostic information.
type checkResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Python   pythonInfo   `json:"python"`
	Library  libraryInfo  `json:"library"`
	Renderer rendererInfo `json:"renderer"`
	Browser  browserInfo  `json:"browser"`
	Env      envInfo      `json:"environment"`
	Settings settingsInfo `json:"settings"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`

	err error // first blocking problem, mapped to the exit code
}

type pythonInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
}

type libraryInfo struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
}

type rendererInfo struct {
	Found    bool     `json:"found"`
	Path     string   `json:"path,omitempty"`
	Searched []string `json:"searched,omitempty"`
}

type browserInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	VirtualEnv string `json:"virtual_env,omitempty"`
}

type settingsInfo struct {
	Path  string `json:"path"`
	Found bool   `json:"found"`
}

// runCheck verifies the environment and returns an exit code.
// Human output announces the result as a notification, success included.
func runCheck(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseCheckFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return finish(env, err)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	path, explicit, err := settingsPath(flags.common.settings, envCfg)
	if err != nil {
		return finish(env, err)
	}
	cfg, err := loadSettingsFile(path, explicit)
	if err != nil {
		return finish(env, err)
	}
	settings, err := resolveSettings(cfg, envCfg, flags.runtime, "")
	if err != nil {
		return finish(env, err)
	}

	opts := []nb2pdf.Option{nb2pdf.WithRunner(env.Runner), nb2pdf.WithNow(env.Now)}
	if !flags.json {
		ui := newTerminalUI(env, path, uiOptions{quiet: flags.common.quiet, verbose: flags.common.verbose})
		opts = append(opts, nb2pdf.WithNotifier(ui))
	}
	if flags.common.verbose {
		opts = append(opts, nb2pdf.WithLog(env.Stderr))
	}
	verify := nb2pdf.NewConverter(settings, opts...).Check(ctx)

	roots := workspaceRoots(flags.runtime.workspace, envCfg)
	result := runDiagnostics(settings, verify, roots, path)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else if !flags.common.quiet {
		printCheckResult(env.Stdout, result)
	}

	return exitCodeFor(result.err)
}

// runDiagnostics assembles the report around a verifier result.
func runDiagnostics(s nb2pdf.Settings, v nb2pdf.VerifyResult, roots []string, settingsFile string) *checkResult {
	result := &checkResult{
		Status:   "ready",
		Library:  libraryInfo{Name: nb2pdf.RequiredLibrary},
		Settings: settingsInfo{Path: settingsFile, Found: fileutil.FileExists(settingsFile)},
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Container:  hints.IsInContainer(),
			VirtualEnv: os.Getenv("VIRTUAL_ENV"),
		},
	}

	checkPython(result, s, v)
	checkRenderer(result, s, roots)
	checkBrowser(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

func checkPython(result *checkResult, s nb2pdf.Settings, v nb2pdf.VerifyResult) {
	result.Python.Path = s.Interpreter()
	if v.OK || v.Category == nb2pdf.CategoryMissingDependency {
		result.Python.Found = true
		result.Python.Path = v.InterpreterPath
		result.Python.Version = v.InterpreterVersion
	}
	if v.OK {
		result.Library.Found = true
		result.Library.Version = v.LibraryVersion
		return
	}

	switch v.Category {
	case nb2pdf.CategoryMissingDependency:
		result.Library.Name = v.Module
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s is not installed. Run: %s -m pip install %s", v.Module, result.Python.Path, v.Module))
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("Python not found at %q. Install Python 3.8+ or set pythonPath", result.Python.Path))
	}
	result.err = v.Err()
}

func checkRenderer(result *checkResult, s nb2pdf.Settings, roots []string) {
	exe, _ := os.Executable()
	resolver := nb2pdf.Resolver{
		BundledScripts: nb2pdf.BundledScriptCandidates(s.RendererScript, exe),
		WorkspaceRoots: roots,
	}
	script, searched, err := resolver.ResolveRendererScript()
	result.Renderer.Searched = searched
	if err != nil {
		result.Errors = append(result.Errors, nb2pdf.MsgScriptMissing+" Set rendererScript or NB2PDF_RENDERER")
		if result.err == nil {
			result.err = err
		}
		return
	}
	result.Renderer.Found = true
	result.Renderer.Path = script
}

// checkBrowser looks for a browser to show install instructions in.
func checkBrowser(result *checkResult) {
	path, found := launcher.LookPath()
	if !found {
		result.Warnings = append(result.Warnings,
			"No browser found. Install instructions will be printed only")
		return
	}
	result.Browser.Found = true
	result.Browser.Path = path
}

// printCheckResult outputs human-readable diagnostic results.
func printCheckResult(w io.Writer, r *checkResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Python")
	if r.Python.Found {
		fmt.Fprintf(w, "  [OK] %s (%s)\n", r.Python.Path, r.Python.Version)
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found (%s)\n", r.Python.Path)
	}
	if r.Library.Found {
		fmt.Fprintf(w, "  [OK] %s %s\n", r.Library.Name, r.Library.Version)
	} else if r.Python.Found {
		fmt.Fprintf(w, "  [ERROR] %s missing\n", r.Library.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderer")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] %s\n", r.Renderer.Path)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
		for _, p := range r.Renderer.Searched {
			fmt.Fprintf(w, "          searched %s\n", p)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.VirtualEnv != "" {
		fmt.Fprintf(w, "  [OK] Virtualenv: %s\n", r.Env.VirtualEnv)
	}
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Browser: %s\n", r.Browser.Path)
	}
	if r.Settings.Found {
		fmt.Fprintf(w, "  [OK] Settings: %s\n", r.Settings.Path)
	} else {
		fmt.Fprintf(w, "  [OK] Settings: defaults (%s not created yet)\n", r.Settings.Path)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
