package output

import "webpilot/internal/domain/entity"

// CaptureSink persists the evidence of a run: one screenshot per step
// plus the step record itself. SaveStep returns the path the screenshot
// landed at so the caller can stamp it into the record.
type CaptureSink interface {
	SaveStep(task entity.Task, rec entity.StepRecord, shot *entity.Screenshot) (string, error)
	SaveResult(task entity.Task, res entity.RunResult) error
}
