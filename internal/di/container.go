// Package di assembles the application: adapters in, runner out.
package di

import (
	"context"
	"fmt"
	"time"

	"webpilot/internal/adapter/action"
	"webpilot/internal/application/port/input"
	"webpilot/internal/application/port/output"
	"webpilot/internal/application/service"
	"webpilot/internal/infrastructure/browser/rod"
	"webpilot/internal/infrastructure/capture"
	"webpilot/internal/infrastructure/dom"
	"webpilot/internal/infrastructure/logger"
	"webpilot/internal/infrastructure/planner/langchain"
	"webpilot/internal/infrastructure/planner/openrouter"
	"webpilot/internal/usecase/runner"
)

const defaultModel = "openai/gpt-4o-mini"

type Container struct {
	Browser  output.BrowserPort
	Planner  output.PlannerPort
	Logger   output.LoggerPort
	Actions  output.ActionRegistry
	Detector output.ChangeDetector
	Sink     output.CaptureSink
	Runner   input.TaskRunner
}

type Config struct {
	TaskName string

	PlannerProvider  string
	PlannerAPIKey    string
	PlannerModel     string
	PlannerBaseURL   string
	PlannerRPM       int
	PlannerAttempts  int
	PlannerRetryBase time.Duration

	BrowserHeadless        bool
	BrowserNoSandbox       bool
	BrowserDevTools        bool
	BrowserDisableSecurity bool
	BrowserSlowMotion      time.Duration
	BrowserTimeout         time.Duration
	SnapshotBudget         int

	MaxSteps        int
	RepeatThreshold int
	SettleDelay     time.Duration
	ChangeThreshold float64

	DatasetDir string
	LogDir     string
	LogLevel   string
	LogConsole bool
}

// ConfigFromEnv maps environment keys onto a Config. Every knob has a
// workable default except the planner credentials.
func ConfigFromEnv(envc output.ConfigPort) Config {
	return Config{
		PlannerProvider:  envc.GetWithDefault("PLANNER_PROVIDER", "openrouter"),
		PlannerAPIKey:    envc.Get("OPENROUTER_API_KEY"),
		PlannerModel:     envc.GetWithDefault("OPENROUTER_MODEL_NAME", defaultModel),
		PlannerBaseURL:   envc.Get("OPENROUTER_BASE_URL"),
		PlannerRPM:       envc.GetInt("PLANNER_REQUESTS_PER_MINUTE", 0),
		PlannerAttempts:  envc.GetInt("PLANNER_MAX_ATTEMPTS", 0),
		PlannerRetryBase: envc.GetDuration("PLANNER_RETRY_BASE", 0),

		BrowserHeadless:        envc.GetBool("BROWSER_HEADLESS", true),
		BrowserNoSandbox:       envc.GetBool("BROWSER_NO_SANDBOX", false),
		BrowserDevTools:        envc.GetBool("BROWSER_DEVTOOLS", false),
		BrowserDisableSecurity: envc.GetBool("BROWSER_DISABLE_SECURITY", false),
		BrowserSlowMotion:      envc.GetDuration("BROWSER_SLOW_MOTION", 0),
		BrowserTimeout:         envc.GetDuration("BROWSER_TIMEOUT", 0),
		SnapshotBudget:         envc.GetInt("SNAPSHOT_BUDGET", 0),

		MaxSteps:        envc.GetInt("MAX_STEPS", 0),
		RepeatThreshold: envc.GetInt("REPEAT_THRESHOLD", 0),
		SettleDelay:     envc.GetDuration("SETTLE_DELAY", 0),
		ChangeThreshold: envc.GetFloat("CHANGE_THRESHOLD", 0),

		DatasetDir: envc.GetWithDefault("DATASET_DIR", "dataset"),
		LogDir:     envc.GetWithDefault("LOG_DIR", "log"),
		LogLevel:   envc.GetWithDefault("LOG_LEVEL", "info"),
		LogConsole: envc.GetBool("LOG_CONSOLE", true),
	}
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Dir:     cfg.LogDir,
		Task:    cfg.TaskName,
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.NoSandbox = cfg.BrowserNoSandbox
	browserCfg.DevTools = cfg.BrowserDevTools
	browserCfg.DisableSecurityFeatures = cfg.BrowserDisableSecurity
	if cfg.BrowserSlowMotion > 0 {
		browserCfg.SlowMotion = cfg.BrowserSlowMotion
	}
	if cfg.BrowserTimeout > 0 {
		browserCfg.Timeout = cfg.BrowserTimeout
	}
	if cfg.SnapshotBudget > 0 {
		browserCfg.SnapshotBudget = cfg.SnapshotBudget
	}

	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("create browser: %w", err)
	}

	actions := service.NewActionRegistry()
	registerActions(actions)

	planner, err := newPlanner(cfg, actions, log)
	if err != nil {
		browser.Close()
		log.Close()
		return nil, err
	}

	detector := dom.NewDetector(cfg.ChangeThreshold)
	sink := capture.NewFileSink(cfg.DatasetDir)

	uc := runner.New(browser, planner, actions, detector, sink, log.Named("runner"), runner.Config{
		MaxSteps:        cfg.MaxSteps,
		RepeatThreshold: cfg.RepeatThreshold,
		SettleDelay:     cfg.SettleDelay,
	})

	return &Container{
		Browser:  browser,
		Planner:  planner,
		Logger:   log,
		Actions:  actions,
		Detector: detector,
		Sink:     sink,
		Runner:   uc,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// registerActions wires the built-in kinds plus scroll, which rides the
// registry extension point like any custom kind would.
func registerActions(reg output.ActionRegistry) {
	action.RegisterBuiltins(reg)
	reg.Register(action.ScrollKind, action.Scroll)
}

func newPlanner(cfg Config, reg output.ActionRegistry, log output.LoggerPort) (output.PlannerPort, error) {
	if cfg.PlannerAPIKey == "" {
		return nil, fmt.Errorf("planner api key is required (set OPENROUTER_API_KEY)")
	}
	model := cfg.PlannerModel
	if model == "" {
		model = defaultModel
	}

	switch cfg.PlannerProvider {
	case "", "openrouter":
		pcfg := openrouter.DefaultConfig(cfg.PlannerAPIKey, model)
		pcfg.Logger = log.Named("planner")
		if cfg.PlannerBaseURL != "" {
			pcfg.BaseURL = cfg.PlannerBaseURL
		}
		if cfg.PlannerRPM > 0 {
			pcfg.RequestsPerMinute = cfg.PlannerRPM
		}
		if cfg.PlannerAttempts > 0 {
			pcfg.MaxAttempts = cfg.PlannerAttempts
		}
		if cfg.PlannerRetryBase > 0 {
			pcfg.RetryBase = cfg.PlannerRetryBase
		}
		return openrouter.NewPlannerAdapter(pcfg, reg), nil

	case "langchain":
		pcfg := langchain.DefaultConfig(cfg.PlannerAPIKey, model)
		pcfg.Logger = log.Named("planner")
		if cfg.PlannerBaseURL != "" {
			pcfg.BaseURL = cfg.PlannerBaseURL
		}
		if cfg.PlannerAttempts > 0 {
			pcfg.MaxAttempts = cfg.PlannerAttempts
		}
		if cfg.PlannerRetryBase > 0 {
			pcfg.RetryBase = cfg.PlannerRetryBase
		}
		return langchain.NewPlannerAdapter(pcfg, reg)

	default:
		return nil, fmt.Errorf("unknown planner provider %q", cfg.PlannerProvider)
	}
}
