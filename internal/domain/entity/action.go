package entity

import (
	"fmt"
	"strings"
)

type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionClick    ActionKind = "click"
	ActionTypeText ActionKind = "type"
	ActionWaitFor  ActionKind = "wait_for"
	ActionDone     ActionKind = "done"
)

func (k ActionKind) String() string {
	return string(k)
}

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Locator names one target element by exactly one of a CSS selector,
// an XPath expression, or a viewport coordinate. Selector and XPath
// locators must resolve to a single visible element; coordinates skip
// matching entirely.
type Locator struct {
	Selector string      `json:"selector,omitempty"`
	XPath    string      `json:"xpath,omitempty"`
	Coord    *Coordinate `json:"coordinates,omitempty"`
}

func (l Locator) IsZero() bool {
	return l.Selector == "" && l.XPath == "" && l.Coord == nil
}

// Validate rejects locators with zero or more than one addressing hint.
func (l Locator) Validate() error {
	n := 0
	if l.Selector != "" {
		n++
	}
	if l.XPath != "" {
		n++
	}
	if l.Coord != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("locator needs exactly one of selector, xpath or coordinates (got %d): %w", n, ErrInvalidAction)
	}
	return nil
}

func (l Locator) Equal(o Locator) bool {
	if l.Selector != o.Selector || l.XPath != o.XPath {
		return false
	}
	if (l.Coord == nil) != (o.Coord == nil) {
		return false
	}
	return l.Coord == nil || *l.Coord == *o.Coord
}

func (l Locator) String() string {
	switch {
	case l.Selector != "":
		return l.Selector
	case l.XPath != "":
		return l.XPath
	case l.Coord != nil:
		return fmt.Sprintf("(%d,%d)", l.Coord.X, l.Coord.Y)
	default:
		return "<no locator>"
	}
}

// Action is one planned browser operation. Kind is open-ended: any
// string registered with the action registry dispatches, the constants
// above only name the built-ins. Unused fields stay zero.
type Action struct {
	Kind      ActionKind `json:"kind"`
	URL       string     `json:"url,omitempty"`
	Locator   Locator    `json:"locator,omitzero"`
	Value     string     `json:"value,omitempty"`
	Direction string     `json:"direction,omitempty"`
}

// Validate checks the params of the built-in kinds. Unknown kinds pass:
// their handlers own their params.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionNavigate:
		if strings.TrimSpace(a.URL) == "" {
			return fmt.Errorf("navigate needs a url: %w", ErrInvalidAction)
		}
	case ActionClick:
		if err := a.Locator.Validate(); err != nil {
			return err
		}
	case ActionTypeText:
		if err := a.Locator.Validate(); err != nil {
			return err
		}
		if a.Locator.Coord != nil {
			return fmt.Errorf("type cannot target coordinates: %w", ErrInvalidAction)
		}
	case ActionWaitFor:
		if err := a.Locator.Validate(); err != nil {
			return err
		}
		if a.Locator.Coord != nil {
			return fmt.Errorf("wait_for cannot target coordinates: %w", ErrInvalidAction)
		}
	case ActionDone:
		// no params
	case "":
		return fmt.Errorf("action kind is empty: %w", ErrInvalidAction)
	}
	return nil
}

// Equal reports structural identity: same kind and same params. Used
// by the run loop to spot a planner stuck re-proposing one action.
func (a Action) Equal(o Action) bool {
	return a.Kind == o.Kind &&
		a.URL == o.URL &&
		a.Value == o.Value &&
		a.Direction == o.Direction &&
		a.Locator.Equal(o.Locator)
}

func (a Action) String() string {
	switch a.Kind {
	case ActionNavigate:
		return fmt.Sprintf("navigate %s", a.URL)
	case ActionClick:
		return fmt.Sprintf("click %s", a.Locator)
	case ActionTypeText:
		return fmt.Sprintf("type %q into %s", a.Value, a.Locator)
	case ActionWaitFor:
		return fmt.Sprintf("wait_for %s", a.Locator)
	case ActionDone:
		return "done"
	default:
		parts := []string{a.Kind.String()}
		if a.URL != "" {
			parts = append(parts, a.URL)
		}
		if !a.Locator.IsZero() {
			parts = append(parts, a.Locator.String())
		}
		if a.Value != "" {
			parts = append(parts, fmt.Sprintf("%q", a.Value))
		}
		if a.Direction != "" {
			parts = append(parts, a.Direction)
		}
		return strings.Join(parts, " ")
	}
}
