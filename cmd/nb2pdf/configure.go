package main

import (
	"context"
	"errors"
	"fmt"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/config"
)

var errNotInteractive = errors.New("configure needs an interactive terminal (edit the settings file instead)")

// runConfigure prompts for the identity fields and saves them in the
// settings file, creating it when needed.
func runConfigure(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseConfigureFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	path, _, err := settingsPath(flags.settings, envCfg)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cfg, envCfg, runtimeFlags{}, "")
	if err != nil {
		return err
	}

	ui := newTerminalUI(env, path, uiOptions{quiet: flags.quiet, verbose: flags.verbose})
	if !ui.interactive() {
		return fmt.Errorf("%w: %s", errNotInteractive, path)
	}

	conv := nb2pdf.NewConverter(settings, nb2pdf.WithPrompter(ui), nb2pdf.WithNotifier(ui))
	id, err := conv.ConfigureIdentity(ctx, settingsStore{path: path})
	if err != nil {
		return err
	}

	if flags.verbose {
		fmt.Fprintf(env.Stderr, "nb2pdf: saved %s (%s, %s)\n", path, id.StudentName, id.RollNumber)
	}
	return nil
}
