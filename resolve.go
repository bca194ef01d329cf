package nb2pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nb2pdf/internal/fileutil"
)

// File extensions handled by the resolver.
const (
	NotebookExt = ".ipynb"
	PDFExt      = ".pdf"
)

// EditorContext exposes the currently focused document, if any.
type EditorContext interface {
	ActiveDocument() string
}

// Picker asks the user to choose a single file with the given extension.
// An empty path with a nil error means nothing was selected.
type Picker interface {
	PickFile(ctx context.Context, title, ext string) (string, error)
}

// Prompt describes a single-line text question.
type Prompt struct {
	Label       string
	Value       string // Pre-filled answer
	Placeholder string
}

// Prompter asks the user for a line of text. ok is false when dismissed.
type Prompter interface {
	Prompt(ctx context.Context, p Prompt) (answer string, ok bool, err error)
}

// Resolver derives the paths of one conversion request.
type Resolver struct {
	Editor         EditorContext
	Picker         Picker
	Prompter       Prompter
	BundledScripts []string // Candidate renderer locations, searched in order
	WorkspaceRoots []string
}

// ResolveSource returns the notebook to convert: explicit (unchanged, not
// stat'ed), else the active notebook document, else the picker's choice.
func (r *Resolver) ResolveSource(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if r.Editor != nil {
		if doc := r.Editor.ActiveDocument(); doc != "" && fileutil.HasExtFold(doc, NotebookExt) {
			return doc, nil
		}
	}

	if r.Picker == nil {
		return "", ErrNoSourceSelected
	}
	picked, err := r.Picker.PickFile(ctx, "Select Jupyter Notebook", NotebookExt)
	if err != nil {
		return "", fmt.Errorf("picking notebook: %w", err)
	}
	if picked == "" {
		return "", ErrNoSourceSelected
	}
	return picked, nil
}

// ResolveOutput returns the PDF path for source.
//
// Without CustomName the extension is replaced by .pdf in the same directory.
// With CustomName the user is prompted (unless req.Name pre-answers it); the
// answer is joined with the source directory and .pdf appended when missing.
// A dismissed or blank answer returns ErrPromptDismissed.
func (r *Resolver) ResolveOutput(ctx context.Context, source string, req ConversionRequest) (string, error) {
	def := fileutil.ReplaceExt(source, PDFExt)
	if !req.CustomName {
		return def, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		if r.Prompter == nil {
			return "", ErrPromptDismissed
		}
		answer, ok, err := r.Prompter.Prompt(ctx, Prompt{
			Label:       "Enter PDF filename",
			Value:       filepath.Base(def),
			Placeholder: "my_report.pdf",
		})
		if err != nil {
			return "", fmt.Errorf("prompting output name: %w", err)
		}
		name = strings.TrimSpace(answer)
		if !ok || name == "" {
			return "", ErrPromptDismissed
		}
	}

	out := filepath.Join(filepath.Dir(source), name)
	if !fileutil.HasExtFold(out, PDFExt) {
		out += PDFExt
	}
	return out, nil
}

// ResolveRendererScript returns the first existing renderer script, bundled
// locations first, then each workspace root. On failure the error wraps
// ErrRendererScriptMissing and searched lists every candidate tried.
func (r *Resolver) ResolveRendererScript() (path string, searched []string, err error) {
	candidates := make([]string, 0, len(r.BundledScripts)+len(r.WorkspaceRoots))
	candidates = append(candidates, r.BundledScripts...)
	for _, root := range r.WorkspaceRoots {
		candidates = append(candidates, filepath.Join(root, RendererScriptName))
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		searched = append(searched, c)
		if fileutil.FileExists(c) {
			return c, searched, nil
		}
	}
	return "", searched, ErrRendererScriptMissing
}

// BundledScriptCandidates lists the renderer locations relative to an
// installed executable, with an explicit override first.
func BundledScriptCandidates(override, executable string) []string {
	var out []string
	if override != "" {
		out = append(out, override)
	}
	if executable == "" {
		return out
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	dir := filepath.Dir(executable)
	return append(out,
		filepath.Join(dir, "scripts", RendererScriptName),
		filepath.Join(dir, "..", "share", "nb2pdf", RendererScriptName),
	)
}

// ConfigDir returns where the identity config is written: the first workspace
// root, else the current directory. The result is absolute.
func ConfigDir(workspaceRoots []string) (string, error) {
	if len(workspaceRoots) > 0 && workspaceRoots[0] != "" {
		dir, err := filepath.Abs(workspaceRoots[0])
		if err != nil {
			return "", fmt.Errorf("resolving workspace root: %w", err)
		}
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

// absInterpreter anchors an interpreter given as a relative path to the
// current directory, since the renderer runs from the script's directory.
// Bare command names are left for PATH lookup.
func absInterpreter(name string) string {
	if filepath.IsAbs(name) || !strings.ContainsAny(name, "/"+string(filepath.Separator)) {
		return name
	}
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return name
}
