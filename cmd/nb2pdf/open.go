package main

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-nb2pdf/internal/hints"
)

// ErrNoOpener is returned when neither a desktop opener nor a browser exists.
var ErrNoOpener = errors.New("no program available to open")

// openTarget hands target to the platform opener without waiting for it.
// Pages and URLs fall back to a locally installed browser on headless
// setups without xdg-open.
func openTarget(_ context.Context, target string) error {
	name, args := openerCommand(runtime.GOOS, target)
	if _, err := exec.LookPath(name); err != nil {
		browser, found := "", false
		if isBrowsable(target) {
			browser, found = launcher.LookPath()
		}
		if !found {
			return fmt.Errorf("%w %s%s", ErrNoOpener, target, hints.ForOpen(target))
		}
		name, args = browser, []string{target}
	}

	cmd := exec.Command(name, args...) // #nosec G204 -- opener and target are chosen by the user
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	return cmd.Process.Release()
}

// openerCommand returns the platform command that opens target.
func openerCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// isBrowsable reports whether a web browser can display target.
func isBrowsable(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasSuffix(lower, ".html")
}
