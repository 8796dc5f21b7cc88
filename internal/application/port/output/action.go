package output

import (
	"context"

	"webpilot/internal/domain/entity"
)

// ActionHandler performs one action kind against the browser. Handlers
// report failure through the entity error taxonomy so the run loop can
// classify outcomes without knowing the kind.
type ActionHandler func(ctx context.Context, browser BrowserPort, action entity.Action) error

// ActionRegistry is the extension point for action kinds: registering a
// new kind makes it plannable and dispatchable without touching the run
// loop. Register replaces an existing kind silently.
type ActionRegistry interface {
	Register(kind entity.ActionKind, handler ActionHandler)
	Get(kind entity.ActionKind) (ActionHandler, bool)
	Kinds() []entity.ActionKind
}
