package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	nb2pdf "github.com/alnah/go-nb2pdf"
	"github.com/alnah/go-nb2pdf/internal/config"
	"github.com/alnah/go-nb2pdf/internal/history"
)

// historyRecorder stores every finished conversion.
type historyRecorder struct {
	ctx   context.Context
	store *history.Store
	warn  io.Writer
}

// Compile-time interface implementation check.
var _ nb2pdf.Observer = (*historyRecorder)(nil)

// openHistory opens the recorder configured by cfg. It returns nil when
// history is off or cannot be opened; a broken history never blocks a
// conversion.
func openHistory(ctx context.Context, cfg *config.Config, warn io.Writer) *historyRecorder {
	path, err := historyPath(cfg)
	if err != nil || path == "" {
		return nil
	}
	store, err := history.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(warn, "warning: history disabled: %v\n", err)
		return nil
	}
	// Interrupted conversions are recorded too.
	return &historyRecorder{ctx: context.WithoutCancel(ctx), store: store, warn: warn}
}

// ObserveConversion implements nb2pdf.Observer.
func (h *historyRecorder) ObserveConversion(r *nb2pdf.Report) {
	if err := h.store.Record(h.ctx, historyEntry(r)); err != nil {
		fmt.Fprintf(h.warn, "warning: %v\n", err)
	}
}

func (h *historyRecorder) Close() error {
	return h.store.Close()
}

// historyEntry flattens a report into a history row.
func historyEntry(r *nb2pdf.Report) history.Entry {
	e := history.Entry{
		ID:        r.ID,
		Started:   r.Started,
		Source:    r.Paths.SourcePath,
		Output:    r.Paths.OutputPath,
		Result:    r.Result(),
		Category:  r.Category().String(),
		SizeBytes: r.Outcome.SizeBytes,
		Duration:  r.Duration,
	}
	if !r.Outcome.Succeeded() {
		e.Message = firstLine(r.Notification.Message)
	}
	return e
}

// runHistory lists or clears recorded conversions.
func runHistory(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseHistoryFlags(args, env.Stdout)
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
	applyEnvConfig(envCfg, cfg)

	dbPath, err := historyPath(cfg)
	if err != nil {
		return err
	}
	if dbPath == "" {
		fmt.Fprintln(env.Stdout, "History is disabled (historyPath: off).")
		return nil
	}

	store, err := history.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if flags.clear {
		n, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Removed %d entries from %s\n", n, dbPath)
		}
		return nil
	}

	entries, err := store.List(ctx, flags.limit)
	if err != nil {
		return err
	}
	if flags.json {
		return writeHistoryJSON(env.Stdout, entries)
	}
	printHistory(env.Stdout, entries)
	return nil
}

// historyJSON is the JSON shape of one history entry.
type historyJSON struct {
	ID         string    `json:"id"`
	Started    time.Time `json:"started"`
	Source     string    `json:"source"`
	Output     string    `json:"output,omitempty"`
	Result     string    `json:"result"`
	Category   string    `json:"category"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Message    string    `json:"message,omitempty"`
}

func writeHistoryJSON(w io.Writer, entries []history.Entry) error {
	out := make([]historyJSON, len(entries))
	for i, e := range entries {
		out[i] = historyJSON{
			ID:         e.ID,
			Started:    e.Started.UTC(),
			Source:     e.Source,
			Output:     e.Output,
			Result:     e.Result,
			Category:   e.Category,
			SizeBytes:  e.SizeBytes,
			DurationMs: e.Duration.Milliseconds(),
			Message:    e.Message,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversions recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tRESULT\tNOTEBOOK\tPDF\tTIME")
	for _, e := range entries {
		result := e.Result
		if e.Category != nb2pdf.CategoryNone.String() {
			result += " (" + e.Category + ")"
		}
		pdf := "-"
		if e.SizeBytes > 0 {
			pdf = nb2pdf.FormatSize(e.SizeBytes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Started.Local().Format("2006-01-02 15:04"),
			result,
			orDash(e.Source),
			pdf,
			e.Duration.Round(time.Millisecond),
		)
	}
	_ = tw.Flush()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
