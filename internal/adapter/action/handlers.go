// Package action holds the built-in action handlers the registry wires
// at startup, plus the kinds shipped as registry extensions.
package action

import (
	"context"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// Each handler validates its params first, so a scripted step with bad
// params fails the same way a planned one does.

func Navigate(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}
	return browser.Navigate(ctx, act.URL)
}

func Click(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}
	return browser.Click(ctx, act.Locator)
}

func TypeText(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}
	return browser.TypeText(ctx, act.Locator, act.Value)
}

func WaitFor(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	if err := act.Validate(); err != nil {
		return err
	}
	return browser.WaitFor(ctx, act.Locator)
}

// Done touches nothing: the run loop reads the kind itself to finish
// the run after the step is recorded.
func Done(ctx context.Context, browser output.BrowserPort, act entity.Action) error {
	return nil
}

// RegisterBuiltins wires the five core kinds. Anything else enters
// through the same Register call this uses.
func RegisterBuiltins(reg output.ActionRegistry) {
	reg.Register(entity.ActionNavigate, Navigate)
	reg.Register(entity.ActionClick, Click)
	reg.Register(entity.ActionTypeText, TypeText)
	reg.Register(entity.ActionWaitFor, WaitFor)
	reg.Register(entity.ActionDone, Done)
}
