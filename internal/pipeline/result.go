package pipeline

import (
	"time"
)

// StepStatus is the state of one pipeline step. Steps move
// Pending → Running → one of {Succeeded, Failed, Skipped}.
type StepStatus int

const (
	StatusPending StepStatus = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

// String returns the lowercase status name.
func (s StepStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepResult captures the outcome of a single step. Input is the current
// input the step consumed; Output is set only when the step produced an
// artifact.
type StepResult struct {
	Index    int           `json:"index"`
	Op       Op            `json:"-"`
	OpName   string        `json:"op"`
	Status   StepStatus    `json:"-"`
	State    string        `json:"status"`
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`

	// RMSE is the root-mean-square residual of a georeference fit, in
	// ground units. Zero for other operations.
	RMSE float64 `json:"rmse,omitempty"`
}

// finish stamps the terminal status and mirrors the non-serializable
// fields into their string forms.
func (r *StepResult) finish(status StepStatus, start time.Time) {
	r.Status = status
	r.State = status.String()
	r.OpName = r.Op.String()
	r.Duration = time.Since(start)
	if r.Err != nil {
		r.Error = r.Err.Error()
	}
}

// Summary is the structured outcome of a whole run: one result per step,
// in order, every step attempted. Callers decide their own pass/fail
// policy from the per-step results; the pipeline itself does not collapse
// them into a single verdict.
type Summary struct {
	Input    string        `json:"input"`
	Results  []StepResult  `json:"results"`
	Duration time.Duration `json:"-"`
}

// Failed reports whether any step failed. Skipped steps do not count: a
// skip is a reported precondition, not a broken artifact.
func (s *Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}

// FinalOutput returns the last artifact a successful step produced, or
// the empty string when no step wrote one.
func (s *Summary) FinalOutput() string {
	for i := len(s.Results) - 1; i >= 0; i-- {
		if s.Results[i].Status == StatusSucceeded && s.Results[i].Output != "" {
			return s.Results[i].Output
		}
	}
	return ""
}
