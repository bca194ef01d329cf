// Package guide renders the manual dependency-install instructions, as
// Markdown for the terminal and as a standalone HTML page for a browser.
package guide

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for guide rendering.
var (
	ErrMissingModule  = errors.New("module name is required")
	ErrHTMLConversion = errors.New("HTML conversion failed")
)

//go:embed install.md.tmpl
var installTemplate string

var tmpl = template.Must(template.New("install").Parse(installTemplate))

// pageTemplate wraps the rendered fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Install nb2pdf Dependencies</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
h1 { color: #007acc; }
pre { padding: 0.8rem 1rem; border-radius: 5px; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
</style>
</head>
<body>
%s
</body>
</html>`

// Data parametrizes the instructions.
type Data struct {
	Interpreter        string
	Module             string
	InstallCommand     string // Defaults to "<Interpreter> -m pip install <Module>"
	TroubleshootingURL string
}

func (d Data) withDefaults() Data {
	if d.Interpreter == "" {
		d.Interpreter = "python"
	}
	if d.InstallCommand == "" {
		d.InstallCommand = d.Interpreter + " -m pip install " + d.Module
	}
	if d.TroubleshootingURL == "" {
		d.TroubleshootingURL = "https://github.com/ganesh250684/nb2pdf#troubleshooting"
	}
	return d
}

// Markdown renders the instructions as Markdown.
func Markdown(d Data) (string, error) {
	if strings.TrimSpace(d.Module) == "" {
		return "", ErrMissingModule
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d.withDefaults()); err != nil {
		return "", fmt.Errorf("rendering instructions: %w", err)
	}
	return buf.String(), nil
}

// Renderer converts the instructions to HTML with highlighted shell snippets.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer. Highlighting uses inline styles so the page
// needs no external stylesheet.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &Renderer{md: md}
}

// HTML renders the instructions as a standalone HTML page.
// Supports context cancellation via goroutine + select since goldmark does not.
func (r *Renderer) HTML(ctx context.Context, d Data) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := Markdown(d)
	if err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(pageTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// WriteHTML renders the page into dir (os.TempDir when empty) and returns its
// path. The file name depends only on the module, so a later call for the
// same module overwrites the page instead of adding another one. The page is
// left in place for the browser that opens it.
func (r *Renderer) WriteHTML(ctx context.Context, dir string, d Data) (string, error) {
	page, err := r.HTML(ctx, d)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, PageName(d.Module))
	if err := os.WriteFile(path, []byte(page), 0o600); err != nil {
		return "", fmt.Errorf("writing instructions page: %w", err)
	}
	return path, nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PageName is the file name of the instructions page for module.
func PageName(module string) string {
	name := strings.Trim(unsafeNameChars.ReplaceAllString(module, "_"), "._")
	if name == "" {
		name = "dependencies"
	}
	return "nb2pdf-install-" + name + ".html"
}
