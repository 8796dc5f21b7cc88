package entity

import "fmt"

type StepOutcome string

const (
	OutcomeSuccess StepOutcome = "success"
	OutcomeError   StepOutcome = "error"
)

// StepRecord is the durable trace of one loop cycle: what was planned,
// whether it worked, and the state fingerprints around it. Action is
// nil when planning itself failed, so nothing was dispatched.
type StepRecord struct {
	Index          int         `json:"index"`
	Action         *Action     `json:"action,omitempty"`
	Before         string      `json:"before"`
	After          string      `json:"after"`
	Changed        bool        `json:"changed"`
	Outcome        StepOutcome `json:"outcome"`
	Error          string      `json:"error,omitempty"`
	ScreenshotPath string      `json:"screenshot,omitempty"`
}

// Summary is the one-line form handed back to the planner as history.
func (r StepRecord) Summary() string {
	act := "<no action>"
	if r.Action != nil {
		act = r.Action.String()
	}
	state := "page unchanged"
	if r.Changed {
		state = "page changed"
	}
	if r.Outcome == OutcomeError {
		return fmt.Sprintf("step %d: %s -> error: %s (%s)", r.Index, act, r.Error, state)
	}
	return fmt.Sprintf("step %d: %s -> ok (%s)", r.Index, act, state)
}

type RunStatus string

const (
	RunCompleted         RunStatus = "completed"
	RunStepLimitExceeded RunStatus = "step-limit-exceeded"
	RunLoopDetected      RunStatus = "loop-detected"
)

// Err maps a terminal status onto the error taxonomy: nil for a
// completed run, the matching sentinel otherwise.
func (s RunStatus) Err() error {
	switch s {
	case RunStepLimitExceeded:
		return ErrStepLimit
	case RunLoopDetected:
		return ErrLoopDetected
	default:
		return nil
	}
}

type RunResult struct {
	RunID  string       `json:"run_id"`
	Task   string       `json:"task"`
	Status RunStatus    `json:"status"`
	Steps  []StepRecord `json:"steps"`
}
