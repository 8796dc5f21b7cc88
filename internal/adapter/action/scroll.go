package action

import (
	"context"
	"fmt"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// ScrollKind is not part of the built-in set: it is registered through
// the public extension point during wiring.
const ScrollKind entity.ActionKind = "scroll"

func Scroll(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	if act.Direction == "" {
		return fmt.Errorf("scroll needs a direction: %w", entity.ErrInvalidAction)
	}
	return browser.Scroll(ctx, act.Direction)
}
