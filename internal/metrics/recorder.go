package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildSuccess BuildOutcomeLabel = "success"
	BuildWarning BuildOutcomeLabel = "warning"
	BuildFailed  BuildOutcomeLabel = "failed"
)

// UnitOutcome classifies what happened to a source unit.
type UnitOutcome string

const (
	UnitParsed   UnitOutcome = "parsed"
	UnitSkipped  UnitOutcome = "skipped"
	UnitConflict UnitOutcome = "conflict"
)

// FileOp classifies output file changes.
type FileOp string

const (
	FileWritten FileOp = "written"
	FileRemoved FileOp = "removed"
	FileChanged FileOp = "changed"
)

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddUnits(outcome UnitOutcome, n int)
	AddFiles(op FileOp, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) AddUnits(UnitOutcome, int)                  {}
func (NoopRecorder) AddFiles(FileOp, int)                       {}
