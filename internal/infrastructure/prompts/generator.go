package prompts

import (
	"bytes"
	"text/template"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

// HistoryWindow is how many of the most recent steps the user prompt
// renders verbatim. Older steps collapse into a count line.
const HistoryWindow = 5

type SystemPromptData struct {
	Kinds []string
}

type UserPromptData struct {
	Goal    string
	Page    string
	History []string
	Elided  int
}

// GenerateSystemPrompt renders the base template with the action kinds
// currently registered, so the planner only ever sees kinds the run
// can actually dispatch.
func GenerateSystemPrompt(baseTemplate string, registry output.ActionRegistry) (string, error) {
	kinds := registry.Kinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}

	return render("system", baseTemplate, SystemPromptData{Kinds: names})
}

// GenerateUserPrompt renders the goal, the page excerpt and the recent
// step history into the per-turn prompt.
func GenerateUserPrompt(baseTemplate string, task entity.Task, snap entity.Snapshot, history []entity.StepRecord) (string, error) {
	elided := 0
	window := history
	if len(history) > HistoryWindow {
		elided = len(history) - HistoryWindow
		window = history[elided:]
	}

	lines := make([]string, 0, len(window))
	for _, rec := range window {
		lines = append(lines, rec.Summary())
	}

	return render("user", baseTemplate, UserPromptData{
		Goal:    task.Goal,
		Page:    snap.Content,
		History: lines,
		Elided:  elided,
	})
}

func render(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
