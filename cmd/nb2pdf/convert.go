package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	nb2pdf "github.com/alnah/go-nb2pdf"
)

// runConvert converts one notebook: the positional argument, else the
// editor's active document, else a picked one.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	path, explicit, err := settingsPath(flags.common.settings, envCfg)
	if err != nil {
		return err
	}
	cfg, err := loadSettingsFile(path, explicit)
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cfg, envCfg, flags.runtime, flags.timeout)
	if err != nil {
		return err
	}

	roots := workspaceRoots(flags.runtime.workspace, envCfg)
	ui := newTerminalUI(env, path, uiOptions{
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		noInput: flags.noInput,
		roots:   roots,
		active:  envCfg.ActiveFile,
		out:     notificationOut(env, flags.json),
	})

	opts := []nb2pdf.Option{
		nb2pdf.WithRunner(env.Runner),
		nb2pdf.WithEditor(ui),
		nb2pdf.WithPicker(ui),
		nb2pdf.WithPrompter(ui),
		nb2pdf.WithNotifier(ui),
		nb2pdf.WithWorkspaceRoots(roots...),
		nb2pdf.WithNow(env.Now),
	}
	if flags.common.verbose {
		opts = append(opts, nb2pdf.WithLog(env.Stderr))
	}

	var metrics *nb2pdf.Metrics
	if flags.metricsFile != "" {
		metrics = nb2pdf.NewMetrics()
		opts = append(opts, nb2pdf.WithObserver(metrics))
	}
	if rec := openHistory(ctx, cfg, env.Stderr); rec != nil {
		defer func() { _ = rec.Close() }()
		opts = append(opts, nb2pdf.WithObserver(rec))
	}

	req := nb2pdf.ConversionRequest{CustomName: flags.customName, Name: flags.name}
	if len(positional) == 1 {
		req.SourcePath = positional[0]
	}

	report, convErr := nb2pdf.NewConverter(settings, opts...).Convert(ctx, req)

	if metrics != nil {
		if err := metrics.WriteTextfile(flags.metricsFile); err != nil {
			fmt.Fprintf(env.Stderr, "warning: %v\n", err)
		}
	}
	if flags.json {
		if err := writeReportJSON(env.Stdout, report); err != nil {
			return err
		}
	}
	return convErr
}

// notificationOut keeps stdout clean for JSON output.
func notificationOut(env *Environment, jsonOutput bool) io.Writer {
	if jsonOutput {
		return env.Stderr
	}
	return env.Stdout
}

// reportJSON is the JSON shape of a conversion report.
type reportJSON struct {
	ID         string `json:"id"`
	Result     string `json:"result"`
	Stage      string `json:"stage"`
	Category   string `json:"category"`
	Module     string `json:"module,omitempty"`
	Source     string `json:"source,omitempty"`
	Output     string `json:"output,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
	Warnings   string `json:"warnings,omitempty"`
	Error      string `json:"error,omitempty"`
}

func writeReportJSON(w io.Writer, r *nb2pdf.Report) error {
	out := reportJSON{
		ID:         r.ID,
		Result:     r.Result(),
		Stage:      r.Stage.String(),
		Category:   r.Category().String(),
		Module:     r.Outcome.Module,
		Source:     r.Paths.SourcePath,
		Output:     r.Paths.OutputPath,
		SizeBytes:  r.Outcome.SizeBytes,
		DurationMs: r.Duration.Milliseconds(),
		Message:    r.Notification.Message,
		Warnings:   r.Outcome.WarningText,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
