package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
)

type mockRegistry struct {
	kinds []entity.ActionKind
}

func (r *mockRegistry) Register(kind entity.ActionKind, handler output.ActionHandler) {
	r.kinds = append(r.kinds, kind)
}

func (r *mockRegistry) Get(kind entity.ActionKind) (output.ActionHandler, bool) {
	return nil, false
}

func (r *mockRegistry) Kinds() []entity.ActionKind {
	return r.kinds
}

func TestGenerateSystemPrompt(t *testing.T) {
	registry := &mockRegistry{kinds: []entity.ActionKind{
		entity.ActionClick, entity.ActionDone, entity.ActionNavigate,
		entity.ActionTypeText, entity.ActionWaitFor,
	}}

	prompt, err := GenerateSystemPrompt(DefaultSystemPrompt, registry)
	require.NoError(t, err)

	for _, kind := range registry.kinds {
		assert.Contains(t, prompt, "- "+kind.String()+"\n")
	}
	assert.Contains(t, prompt, `{"step": {"<action>": {<params>}}}`)
	assert.Contains(t, prompt, "exactly one element")
}

func TestGenerateSystemPrompt_OnlyRegisteredKindsListed(t *testing.T) {
	registry := &mockRegistry{kinds: []entity.ActionKind{entity.ActionNavigate, entity.ActionDone}}

	prompt, err := GenerateSystemPrompt(DefaultSystemPrompt, registry)
	require.NoError(t, err)

	listing := prompt[strings.Index(prompt, "Available actions:"):]
	listing = listing[:strings.Index(listing, "Parameters")]
	assert.Contains(t, listing, "- navigate")
	assert.Contains(t, listing, "- done")
	assert.NotContains(t, listing, "- click")
}

func TestGenerateUserPrompt_NoHistory(t *testing.T) {
	task := entity.Task{Name: "demo", Goal: "find the weather in Oslo"}
	snap := entity.NewSnapshot("<body><h1>Start</h1></body>")

	prompt, err := GenerateUserPrompt(UserPromptTemplate, task, snap, nil)
	require.NoError(t, err)

	assert.Contains(t, prompt, "TASK: find the weather in Oslo")
	assert.Contains(t, prompt, "<body><h1>Start</h1></body>")
	assert.Contains(t, prompt, "No steps taken yet.")
	assert.NotContains(t, prompt, "PREVIOUS STEPS")
}

func TestGenerateUserPrompt_RendersHistory(t *testing.T) {
	task := entity.Task{Name: "demo", Goal: "log in"}
	snap := entity.NewSnapshot("<body>form</body>")
	history := []entity.StepRecord{
		{Index: 0, Action: &entity.Action{Kind: entity.ActionNavigate, URL: "https://example.com"}, Changed: true, Outcome: entity.OutcomeSuccess},
		{Index: 1, Action: &entity.Action{Kind: entity.ActionClick, Locator: entity.Locator{Selector: "#login"}}, Outcome: entity.OutcomeError, Error: "element not found"},
	}

	prompt, err := GenerateUserPrompt(UserPromptTemplate, task, snap, history)
	require.NoError(t, err)

	assert.Contains(t, prompt, "PREVIOUS STEPS:")
	assert.Contains(t, prompt, "step 0: navigate https://example.com -> ok (page changed)")
	assert.Contains(t, prompt, "step 1: click #login -> error: element not found (page unchanged)")
	assert.NotContains(t, prompt, "omitted")
}

func TestGenerateUserPrompt_WindowsLongHistory(t *testing.T) {
	task := entity.Task{Name: "demo", Goal: "paginate"}
	snap := entity.NewSnapshot("<body>list</body>")

	var history []entity.StepRecord
	for i := 0; i < HistoryWindow+3; i++ {
		history = append(history, entity.StepRecord{
			Index:   i,
			Action:  &entity.Action{Kind: entity.ActionClick, Locator: entity.Locator{Selector: fmt.Sprintf("#page-%d", i)}},
			Changed: true,
			Outcome: entity.OutcomeSuccess,
		})
	}

	prompt, err := GenerateUserPrompt(UserPromptTemplate, task, snap, history)
	require.NoError(t, err)

	assert.Contains(t, prompt, "(first 3 omitted)")
	assert.NotContains(t, prompt, "step 0:")
	assert.NotContains(t, prompt, "step 2:")
	assert.Contains(t, prompt, "step 3:")
	assert.Contains(t, prompt, fmt.Sprintf("step %d:", HistoryWindow+2))
}
