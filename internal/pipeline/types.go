package pipeline

import "time"

// Stage is a step a file goes through in a run.
type Stage string

const (
	StageLoad       Stage = "load"       // read from disk
	StageParse      Stage = "parse"      // interface file and sidecar annotations
	StageSynthesize Stage = "synthesize" // wrappers of every annotated declaration
	StageWrite      Stage = "write"      // output file or stdout
)

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one file, or of the whole run when File is "".
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Decls and Cached count declarations once synthesis is done.
	Decls  int
	Cached int
}

// ProgressSink consumes events. Implementations are called from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds the accumulated duration of each stage.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates dur under stage; files run in parallel, so the total may
// exceed wall time.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
