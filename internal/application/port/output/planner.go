package output

import (
	"context"

	"webpilot/internal/domain/entity"
)

// PlanRequest carries everything the planner is allowed to see: the
// goal, the current page snapshot, and the full ordered history.
type PlanRequest struct {
	Task     entity.Task
	Snapshot entity.Snapshot
	History  []entity.StepRecord
}

// PlannerPort proposes exactly one next action for the current state.
// A response the backend could not turn into an action surfaces as
// entity.ErrPlanning; transport-level retries are the adapter's job.
type PlannerPort interface {
	PlanNext(ctx context.Context, req PlanRequest) (entity.Action, error)
}
