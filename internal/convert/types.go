package convert

import (
	"time"

	"albumconv/internal/audio"
	"albumconv/internal/fileutil"
)

// State is a batch lifecycle state.
type State string

const (
	StateValidating State = "validating"
	StateGain       State = "gain"
	StateTranscode  State = "transcode"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// Job phases recorded on failed outcomes.
const (
	PhaseDetect    = "detect"
	PhaseTranscode = "transcode"
	PhaseTags      = "tags"
)

// Job converts one source file. Index is the position in the validated batch.
type Job struct {
	Index       int
	Source      string
	Destination string
}

// Outcome is the result of one Job. The job succeeded when Err is nil.
type Outcome struct {
	Job         Job
	Destination string
	Format      audio.Format
	Phase       string
	Err         error
	Elapsed     time.Duration
}

// Succeeded reports whether the job produced its destination.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Batch is a validated set of sources and their shared output directory.
type Batch struct {
	Sources   []string
	Skipped   []string
	OutputDir string
	Format    audio.Format
}

// Jobs returns one job per source in batch order.
func (b Batch) Jobs() []Job {
	jobs := make([]Job, len(b.Sources))
	for i, source := range b.Sources {
		jobs[i] = Job{Index: i, Source: source, Destination: fileutil.OutputPath(source, b.OutputDir)}
	}
	return jobs
}

// Report summarizes a batch run. Outcomes are in completion order.
type Report struct {
	BatchID   string
	State     State
	Batch     Batch
	Outcomes  []Outcome
	StartedAt time.Time
	Elapsed   time.Duration
	// Err is the abort cause when State is StateAborted.
	Err error
}

// Succeeded counts successful jobs.
func (r *Report) Succeeded() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Succeeded() {
			count++
		}
	}
	return count
}

// Failed counts failed jobs.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Aborted reports whether the batch stopped before transcoding.
func (r *Report) Aborted() bool {
	return r.State == StateAborted
}
