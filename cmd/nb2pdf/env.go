package main

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the process runner and the desktop opener.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Interactive enables pickers, prompts and action menus.
	Interactive bool

	// Runner spawns the interpreter, the renderer and pip.
	Runner nb2pdf.CommandRunner

	// Open hands a file, folder or URL to the desktop.
	Open func(ctx context.Context, target string) error

	// TempDir receives generated instruction pages (default: os.TempDir()).
	TempDir string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
		Runner:      &nb2pdf.ExecRunner{},
		Open:        openTarget,
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

func (e *Environment) tempDir() string {
	if e.TempDir != "" {
		return e.TempDir
	}
	return os.TempDir()
}
