package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"webpilot/internal/application/port/output"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/planner"
	"webpilot/internal/infrastructure/prompts"
)

var _ output.PlannerPort = (*PlannerAdapter)(nil)

// PlannerAdapter plans steps through an OpenAI-compatible chat
// completion endpoint in JSON mode. Transient upstream failures are
// retried with doubling backoff; unusable responses surface as
// entity.ErrPlanning and stay recoverable for the caller.
type PlannerAdapter struct {
	client   *openai.Client
	model    string
	registry output.ActionRegistry
	logger   output.LoggerPort
	limiter  *rate.Limiter

	maxAttempts int
	retryBase   time.Duration
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort

	// RequestsPerMinute throttles calls before they leave the process.
	// Zero disables the limiter.
	RequestsPerMinute int
	MaxAttempts       int
	RetryBase         time.Duration
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:            apiKey,
		Model:             model,
		BaseURL:           "https://openrouter.ai/api/v1",
		RequestsPerMinute: 20,
		MaxAttempts:       3,
		RetryBase:         10 * time.Second,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("planner request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)

	if resp != nil {
		t.logger.Debug("planner response", "status", resp.Status)
	}
	return resp, err
}

func NewPlannerAdapter(cfg Config, registry output.ActionRegistry) *PlannerAdapter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	if cfg.Logger != nil {
		clientCfg.HTTPClient = &http.Client{
			Transport: &loggingTransport{base: http.DefaultTransport, logger: cfg.Logger},
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
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
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		registry:    registry,
		logger:      cfg.Logger,
		limiter:     limiter,
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
	}
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

	content, err := a.complete(ctx, system, user)
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

// complete runs the chat completion with retries. The backoff doubles
// between attempts (base, 2*base, ...); the final failure returns
// without sleeping.
func (a *PlannerAdapter) complete(ctx context.Context, system, user string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		resp, err := a.client.CreateChatCompletion(ctx, request)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no choices in response: %w", entity.ErrPlanning)
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		if !isTransient(err) {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
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

// isTransient reports whether the upstream failure is worth retrying:
// rate limiting, server errors, or transport-level trouble.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}
