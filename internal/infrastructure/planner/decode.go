// Package planner holds what every planner backend shares: turning a
// raw model response into exactly one action.
package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"webpilot/internal/domain/entity"
)

// stepParams is the whole parameter vocabulary. Every kind picks the
// fields it needs and ignores the rest.
type stepParams struct {
	URL         string             `json:"url"`
	Selector    string             `json:"selector"`
	XPath       string             `json:"xpath"`
	Coordinates *entity.Coordinate `json:"coordinates"`
	Text        string             `json:"text"`
	Direction   string             `json:"direction"`
}

type stepEnvelope struct {
	Step map[string]json.RawMessage `json:"step"`
}

// DecodeAction parses a model response of the form
// {"step": {"<kind>": {<params>}}} into one action. Responses that are
// not valid JSON get a single repair attempt; anything still unusable
// is an entity.ErrPlanning.
func DecodeAction(raw string) (entity.Action, error) {
	cleaned := stripFences(raw)

	var env stepEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil || env.Step == nil {
		repaired, rerr := jsonrepair.JSONRepair(cleaned)
		if rerr != nil {
			return entity.Action{}, fmt.Errorf("unparseable response: %w", entity.ErrPlanning)
		}
		if err := json.Unmarshal([]byte(repaired), &env); err != nil || env.Step == nil {
			return entity.Action{}, fmt.Errorf("response has no step object: %w", entity.ErrPlanning)
		}
	}

	if len(env.Step) != 1 {
		return entity.Action{}, fmt.Errorf("want exactly one step, got %d: %w", len(env.Step), entity.ErrPlanning)
	}

	var act entity.Action
	for kind, rawParams := range env.Step {
		var params stepParams
		if len(rawParams) > 0 {
			if err := json.Unmarshal(rawParams, &params); err != nil {
				return entity.Action{}, fmt.Errorf("bad params for %q (%v): %w", kind, err, entity.ErrPlanning)
			}
		}
		act = entity.Action{
			Kind: entity.ActionKind(kind),
			URL:  params.URL,
			Locator: entity.Locator{
				Selector: params.Selector,
				XPath:    params.XPath,
				Coord:    params.Coordinates,
			},
			Value:     params.Text,
			Direction: params.Direction,
		}
	}

	if err := act.Validate(); err != nil {
		return entity.Action{}, fmt.Errorf("invalid %s step (%v): %w", act.Kind, err, entity.ErrPlanning)
	}

	return act, nil
}

// stripFences drops the markdown code fences models like to wrap JSON
// in, before any parse attempt.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
