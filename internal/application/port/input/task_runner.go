package input

import (
	"context"

	"webpilot/internal/domain/entity"
)

// TaskRunner is the application entrypoint. Run drives the reactive
// observe-plan-execute loop until a terminal status; RunScripted plays
// a fixed action list through the same execute/verify/capture path,
// skipping the planner.
//
// Both return the accumulated result even on error: a session that
// dies mid-run still hands back the steps it recorded.
type TaskRunner interface {
	Run(ctx context.Context, task entity.Task) (*entity.RunResult, error)
	RunScripted(ctx context.Context, task entity.Task, steps []entity.Action) (*entity.RunResult, error)
}
