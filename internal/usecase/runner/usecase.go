// Package runner drives the reactive loop: observe the page, ask the
// planner for one action, execute it, verify whether the page changed,
// persist the evidence, decide whether to keep going.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"webpilot/internal/application/port/input"
	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

var _ input.TaskRunner = (*UseCase)(nil)

const (
	defaultMaxSteps        = 20
	defaultRepeatThreshold = 2
	defaultSettleDelay     = time.Second
)

type Config struct {
	// MaxSteps caps recorded steps per run. Default 20.
	MaxSteps int
	// RepeatThreshold is how many trailing identical actions make the
	// next identical plan a loop. Default 2: the third repetition is
	// never executed.
	RepeatThreshold int
	// SettleDelay is the pause before the single extraction retry.
	SettleDelay time.Duration
}

type UseCase struct {
	browser  output.BrowserPort
	planner  output.PlannerPort
	actions  output.ActionRegistry
	detector output.ChangeDetector
	sink     output.CaptureSink
	logger   output.LoggerPort

	maxSteps        int
	repeatThreshold int
	settleDelay     time.Duration
}

// New wires a runner. The planner may be nil when only RunScripted is
// used.
func New(
	browser output.BrowserPort,
	planner output.PlannerPort,
	actions output.ActionRegistry,
	detector output.ChangeDetector,
	sink output.CaptureSink,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	repeatThreshold := cfg.RepeatThreshold
	if repeatThreshold <= 0 {
		repeatThreshold = defaultRepeatThreshold
	}
	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = defaultSettleDelay
	}

	return &UseCase{
		browser:         browser,
		planner:         planner,
		actions:         actions,
		detector:        detector,
		sink:            sink,
		logger:          logger,
		maxSteps:        maxSteps,
		repeatThreshold: repeatThreshold,
		settleDelay:     settleDelay,
	}
}

func (uc *UseCase) Run(ctx context.Context, task entity.Task) (*entity.RunResult, error) {
	return uc.run(ctx, task, nil)
}

func (uc *UseCase) RunScripted(ctx context.Context, task entity.Task, steps []entity.Action) (*entity.RunResult, error) {
	if steps == nil {
		steps = []entity.Action{}
	}
	return uc.run(ctx, task, steps)
}

// run is the loop shared by reactive and scripted mode. A nil script
// means the planner chooses each action.
func (uc *UseCase) run(ctx context.Context, task entity.Task, script []entity.Action) (*entity.RunResult, error) {
	result := &entity.RunResult{
		RunID: uuid.NewString(),
		Task:  task.Goal,
	}
	log := uc.logger.WithField("run_id", result.RunID)
	log.Info("run started", "task", task.Name, "goal", task.Goal, "scripted", script != nil)

	var history []entity.StepRecord

	finish := func(status entity.RunStatus) (*entity.RunResult, error) {
		result.Status = status
		result.Steps = history
		if err := uc.sink.SaveResult(task, *result); err != nil {
			log.Error("persist result", "error", err)
		}
		log.Info("run finished", "status", status, "steps", len(history))
		return result, nil
	}
	fail := func(err error) (*entity.RunResult, error) {
		result.Steps = history
		log.Error("run aborted", "error", err, "steps", len(history))
		return result, err
	}

	for {
		if len(history) >= uc.maxSteps {
			return finish(entity.RunStepLimitExceeded)
		}
		if script != nil && len(history) >= len(script) {
			return finish(entity.RunCompleted)
		}

		// OBSERVING
		snap, err := uc.observe(ctx, log)
		if err != nil {
			return fail(err)
		}

		// PLANNING
		var act entity.Action
		if script != nil {
			act = script[len(history)]
		} else {
			planned, err := uc.planner.PlanNext(ctx, output.PlanRequest{
				Task:     task,
				Snapshot: snap,
				History:  history,
			})
			if err != nil {
				if ctx.Err() != nil {
					return fail(ctx.Err())
				}
				if !errors.Is(err, entity.ErrPlanning) {
					return fail(fmt.Errorf("plan next step: %w: %w", err, entity.ErrSessionFatal))
				}
				// unusable response: record the miss and observe again
				rec := entity.StepRecord{
					Index:   len(history),
					Before:  snap.Fingerprint,
					After:   snap.Fingerprint,
					Outcome: entity.OutcomeError,
					Error:   err.Error(),
				}
				uc.capture(ctx, task, &rec, log)
				history = append(history, rec)
				log.Warn("planning failed, continuing", "index", rec.Index, "error", err)
				continue
			}
			act = planned

			if uc.repeats(history, act) >= uc.repeatThreshold {
				log.Warn("planner is looping", "action", act.String(), "repeats", uc.repeatThreshold)
				return finish(entity.RunLoopDetected)
			}
		}

		// EXECUTING
		rec := entity.StepRecord{
			Index:  len(history),
			Action: &act,
			Before: snap.Fingerprint,
		}
		if err := uc.execute(ctx, act); err != nil {
			if ctx.Err() != nil {
				return fail(ctx.Err())
			}
			rec.Outcome = entity.OutcomeError
			rec.Error = err.Error()
			log.Warn("action failed", "index", rec.Index, "action", act.String(), "error", err)
		} else {
			rec.Outcome = entity.OutcomeSuccess
		}

		// VERIFYING
		after, err := uc.observe(ctx, log)
		if err != nil {
			// the step did run; keep its record before giving up
			uc.capture(ctx, task, &rec, log)
			history = append(history, rec)
			return fail(err)
		}
		rec.After = after.Fingerprint
		rec.Changed = uc.detector.HasChanged(snap, after)

		// CAPTURING
		uc.capture(ctx, task, &rec, log)
		history = append(history, rec)
		log.Info("step recorded",
			"index", rec.Index, "action", act.String(), "outcome", rec.Outcome, "changed", rec.Changed)

		if act.Kind == entity.ActionDone && rec.Outcome == entity.OutcomeSuccess {
			return finish(entity.RunCompleted)
		}
	}
}

// execute dispatches the action through the registry.
func (uc *UseCase) execute(ctx context.Context, act entity.Action) error {
	handler, ok := uc.actions.Get(act.Kind)
	if !ok {
		return fmt.Errorf("no handler for action %q: %w", act.Kind, entity.ErrInvalidAction)
	}
	return handler(ctx, uc.browser, act)
}

// observe extracts the page state, giving the page one settle period to
// recover from a failed extraction before declaring the session dead.
func (uc *UseCase) observe(ctx context.Context, log output.LoggerPort) (entity.Snapshot, error) {
	snap, err := uc.browser.PageSnapshot(ctx)
	if err == nil {
		return snap, nil
	}
	if ctx.Err() != nil {
		return entity.Snapshot{}, ctx.Err()
	}
	log.Warn("extraction failed, retrying after settle", "error", err, "settle", uc.settleDelay)

	select {
	case <-ctx.Done():
		return entity.Snapshot{}, ctx.Err()
	case <-time.After(uc.settleDelay):
	}

	snap, err = uc.browser.PageSnapshot(ctx)
	if err == nil {
		return snap, nil
	}
	if ctx.Err() != nil {
		return entity.Snapshot{}, ctx.Err()
	}
	return entity.Snapshot{}, fmt.Errorf("extract page state: %w: %w", err, entity.ErrSessionFatal)
}

// capture persists the record with its screenshot. Capture trouble is
// logged, never fatal: losing one artifact must not kill the run.
func (uc *UseCase) capture(ctx context.Context, task entity.Task, rec *entity.StepRecord, log output.LoggerPort) {
	shot, err := uc.browser.Screenshot(ctx)
	if err != nil {
		log.Warn("screenshot failed", "index", rec.Index, "error", err)
		shot = nil
	}
	path, err := uc.sink.SaveStep(task, *rec, shot)
	if err != nil {
		log.Error("persist step", "index", rec.Index, "error", err)
		return
	}
	rec.ScreenshotPath = path
}

// repeats counts how many trailing records repeat the planned action.
// A record without an action (a planning failure) breaks the chain.
func (uc *UseCase) repeats(history []entity.StepRecord, act entity.Action) int {
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Action == nil || !history[i].Action.Equal(act) {
			break
		}
		count++
	}
	return count
}
