package entity

import "errors"

// Failure taxonomy shared by adapters and the run loop. Adapters wrap
// these with fmt.Errorf("...: %w", ...) and callers classify with
// errors.Is.
var (
	// ErrExtraction marks a failed page-state capture. The run loop
	// retries once after a settle delay before giving up on the session.
	ErrExtraction = errors.New("page state extraction failed")

	// ErrPlanning marks an unusable planner response (malformed JSON,
	// unknown shape, invalid params). Recoverable: the step is recorded
	// with an error outcome and the loop continues.
	ErrPlanning = errors.New("planner produced no usable step")

	ErrElementNotFound  = errors.New("element not found")
	ErrAmbiguousMatch   = errors.New("locator matched more than one element")
	ErrElementDisabled  = errors.New("element is disabled")
	ErrWrongElementKind = errors.New("element does not accept text input")
	ErrWaitTimeout      = errors.New("condition not met before timeout")
	ErrInvalidAction    = errors.New("invalid action")

	ErrLoopDetected = errors.New("repeated action loop detected")
	ErrStepLimit    = errors.New("step limit reached")

	// ErrSessionFatal marks a run that cannot make progress: crashed
	// browser target, repeated extraction failure, planner unreachable
	// after retries. Ends the run with whatever history exists.
	ErrSessionFatal = errors.New("session cannot continue")
)
