package metrics

import "time"

// PageResult enumerates what happened to a single traversal item.
type PageResult string

const (
	PageWritten         PageResult = "written"
	PageSkippedGrouping PageResult = "skipped_grouping"
	PageSkippedEmpty    PageResult = "skipped_empty"
	PageFailed          PageResult = "failed"
)

// Outcome enumerates the final status of a render cycle.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeDryRun  Outcome = "dry_run"
)

// Recorder defines observability hooks for render cycles.
type Recorder interface {
	ObserveRenderDuration(d time.Duration)
	ObserveCleanDuration(d time.Duration)
	AddCleanedFiles(n int)
	IncPageResult(result PageResult)
	IncRenderOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(time.Duration) {}
func (NoopRecorder) ObserveCleanDuration(time.Duration)  {}
func (NoopRecorder) AddCleanedFiles(int)                 {}
func (NoopRecorder) IncPageResult(PageResult)            {}
func (NoopRecorder) IncRenderOutcome(Outcome)            {}
