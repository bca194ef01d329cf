package nb2pdf

import (
	"fmt"
	"time"
)

// Category classifies why a conversion could not produce a PDF.
type Category int

// Failure categories. CategoryNone is used for successful outcomes and for
// requests the user cancelled.
const (
	CategoryNone Category = iota
	CategoryInterpreterNotFound
	CategoryMissingDependency
	CategorySourceDocumentError
	CategoryTimeout
	CategoryRendererScriptMissing
	CategoryUnknown
)

var categoryNames = map[Category]string{
	CategoryNone:                  "none",
	CategoryInterpreterNotFound:   "interpreter_not_found",
	CategoryMissingDependency:     "missing_dependency",
	CategorySourceDocumentError:   "source_document_error",
	CategoryTimeout:               "timeout",
	CategoryRendererScriptMissing: "renderer_script_missing",
	CategoryUnknown:               "unknown",
}

// String returns a stable snake_case name, used in metrics labels and history.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSuccessWithWarnings
	OutcomeFailure
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSuccessWithWarnings:
		return "warnings"
	case OutcomeFailure:
		return "failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of one renderer run.
//
// Success and SuccessWithWarnings carry OutputPath and SizeBytes;
// SuccessWithWarnings also carries WarningText. Failure carries Category and
// RawMessage, plus Module for CategoryMissingDependency.
type Outcome struct {
	Kind        OutcomeKind
	OutputPath  string
	SizeBytes   int64
	WarningText string
	Category    Category
	Module      string
	RawMessage  string
	Duration    time.Duration
}

// Succeeded reports whether a PDF was produced.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeSuccessWithWarnings
}

// ConversionRequest is one user-initiated conversion. It is passed by value
// and never mutated by the pipeline.
type ConversionRequest struct {
	SourcePath string // Explicit notebook path; empty = active document or picker
	CustomName bool   // Ask for the output file name
	Name       string // Pre-answers the custom name prompt when non-empty
}

// ResolvedPaths holds every path the renderer run needs.
// Derived once per request: settings may change between invocations.
type ResolvedPaths struct {
	SourcePath         string
	OutputPath         string
	RendererScriptPath string
	InterpreterPath    string
}

// Validate checks that all four paths are set.
func (p ResolvedPaths) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"source", p.SourcePath},
		{"output", p.OutputPath},
		{"renderer script", p.RendererScriptPath},
		{"interpreter", p.InterpreterPath},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s path is empty", ErrIncompletePaths, f.name)
		}
	}
	return nil
}

// IdentityConfig is the JSON document consumed once by the renderer.
type IdentityConfig struct {
	StudentName string `json:"student_name"`
	RollNumber  string `json:"roll_number"`
	Course      string `json:"course"`
	Assignment  string `json:"assignment"`
}
