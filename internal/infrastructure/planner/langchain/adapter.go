// Package langchain is the langchaingo-backed planner. It speaks the
// same OpenAI-compatible protocol as the openrouter backend but goes
// through the langchaingo client.
package langchain

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/planner"
	"webpilot/internal/infrastructure/prompts"
)

var _ output.PlannerPort = (*PlannerAdapter)(nil)

// PlannerAdapter plans steps through llms.Model in JSON mode. The
// langchaingo client reports upstream failures as opaque errors, so
// every transport failure is retried with doubling backoff; unusable
// responses surface as entity.ErrPlanning and stay recoverable.
type PlannerAdapter struct {
	llm      llms.Model
	registry output.ActionRegistry
	logger   output.LoggerPort

	maxAttempts int
	retryBase   time.Duration
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort

	MaxAttempts int
	RetryBase   time.Duration
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     "https://openrouter.ai/api/v1",
		MaxAttempts: 3,
		RetryBase:   10 * time.Second,
	}
}

func NewPlannerAdapter(cfg Config, registry output.ActionRegistry) (*PlannerAdapter, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain client: %w", err)
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = 10 * time.Second
	}

	return &PlannerAdapter{
		llm:         llm,
		registry:    registry,
		logger:      cfg.Logger,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
	}, nil
}

func (a *PlannerAdapter) PlanNext(ctx context.Context, req output.PlanRequest) (entity.Action, error) {
	system, err := prompts.GenerateSystemPrompt(prompts.DefaultSystemPrompt, a.registry)
	if err != nil {
		return entity.Action{}, fmt.Errorf("render system prompt: %w", err)
	}
	user, err := prompts.GenerateUserPrompt(prompts.UserPromptTemplate, req.Task, req.Snapshot, req.History)
	if err != nil {
		return entity.Action{}, fmt.Errorf("render user prompt: %w", err)
	}

	content, err := a.generate(ctx, system, user)
	if err != nil {
		return entity.Action{}, err
	}

	act, err := planner.DecodeAction(content)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("unusable planner response", "error", err, "content", content)
		}
		return entity.Action{}, err
	}

	if a.logger != nil {
		a.logger.Info("planned step", "kind", act.Kind, "action", act.String())
	}
	return act, nil
}

// generate runs the content generation with retries. The client gives
// no structured status codes, so any failed call is treated as
// potentially transient until attempts run out; the final failure
// returns without sleeping.
func (a *PlannerAdapter) generate(ctx context.Context, system, user string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	var lastErr error
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		resp, err := a.llm.GenerateContent(ctx, messages, llms.WithJSONMode())
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no choices in response: %w", entity.ErrPlanning)
			}
			return resp.Choices[0].Content, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		lastErr = err
		if attempt == a.maxAttempts-1 {
			break
		}

		delay := a.retryBase << attempt
		if a.logger != nil {
			a.logger.Warn("planner call failed, backing off",
				"attempt", attempt+1, "delay", delay, "error", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("planner unreachable after %d attempts: %w", a.maxAttempts, lastErr)
}
