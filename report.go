package nb2pdf

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is the pipeline step a request reached.
type Stage int

// Pipeline stages, in execution order.
const (
	StageVerify Stage = iota
	StageResolveSource
	StageResolveOutput
	StageResolveScript
	StageIdentityConfig
	StageRun
	StageDone
)

var stageNames = [...]string{
	StageVerify:         "verify",
	StageResolveSource:  "resolve_source",
	StageResolveOutput:  "resolve_output",
	StageResolveScript:  "resolve_script",
	StageIdentityConfig: "identity_config",
	StageRun:            "run",
	StageDone:           "done",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Report describes a finished request.
type Report struct {
	ID           string
	Request      ConversionRequest
	Paths        ResolvedPaths
	Verify       VerifyResult
	Outcome      Outcome
	Notification Notification
	Stage        Stage // Last stage reached
	Err          error
	Started      time.Time
	Duration     time.Duration
}

// Result names the request's result: success, warnings, failure or cancelled.
func (r *Report) Result() string {
	switch {
	case r.Err == nil:
		return r.Outcome.Kind.String()
	case r.Cancelled():
		return "cancelled"
	default:
		return OutcomeFailure.String()
	}
}

// Cancelled reports whether the user backed out: no notebook selected,
// dismissed name prompt or interrupted context.
func (r *Report) Cancelled() bool {
	return errors.Is(r.Err, ErrNoSourceSelected) ||
		errors.Is(r.Err, ErrPromptDismissed) ||
		errors.Is(r.Err, context.Canceled)
}

// Category returns the failure category, CategoryNone for success.
func (r *Report) Category() Category {
	if r.Err == nil {
		return CategoryNone
	}
	return r.Outcome.Category
}
