package nb2pdf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveConversion(&Report{
		Stage:    StageDone,
		Outcome:  Outcome{Kind: OutcomeSuccess, SizeBytes: 40000},
		Duration: 2 * time.Second,
	})
	m.ObserveConversion(&Report{
		Stage:   StageRun,
		Outcome: Outcome{Kind: OutcomeFailure, Category: CategoryTimeout},
		Err:     ErrConversionFailed,
	})
	m.ObserveConversion(&Report{
		Stage: StageResolveOutput,
		Err:   errors.Join(ErrAborted, ErrPromptDismissed),
	})

	path := filepath.Join(t.TempDir(), "nb2pdf.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`nb2pdf_conversions_total{category="none",result="success"} 1`,
		`nb2pdf_conversions_total{category="timeout",result="failure"} 1`,
		`nb2pdf_conversions_total{category="none",result="cancelled"} 1`,
		`nb2pdf_conversion_duration_seconds_count{stage="done"} 1`,
		`nb2pdf_artifact_bytes_count 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q:\n%s", want, out)
		}
	}
}

func TestReport_Result(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{"success", Report{Outcome: Outcome{Kind: OutcomeSuccess}}, "success"},
		{"warnings", Report{Outcome: Outcome{Kind: OutcomeSuccessWithWarnings}}, "warnings"},
		{"failure", Report{Outcome: Outcome{Kind: OutcomeFailure}, Err: ErrConversionFailed}, "failure"},
		{"no source", Report{Err: ErrNoSourceSelected}, "cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.report.Result(); got != tt.want {
				t.Errorf("Result() = %q, want %q", got, tt.want)
			}
		})
	}
}
