package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webpilot/internal/adapter/action"
	"webpilot/internal/application/service"
	"webpilot/internal/domain/entity"
	"webpilot/internal/infrastructure/env"
	"webpilot/internal/infrastructure/logger"
	"webpilot/internal/infrastructure/planner/langchain"
	"webpilot/internal/infrastructure/planner/openrouter"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_MODEL_NAME", "")
	t.Setenv("PLANNER_PROVIDER", "langchain")
	t.Setenv("MAX_STEPS", "7")
	t.Setenv("SETTLE_DELAY", "250ms")
	t.Setenv("CHANGE_THRESHOLD", "0.1")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("DATASET_DIR", "")
	t.Setenv("LOG_DIR", "")

	cfg := ConfigFromEnv(&env.EnvService{})

	assert.Equal(t, "sk-test", cfg.PlannerAPIKey)
	assert.Equal(t, "langchain", cfg.PlannerProvider)
	assert.Equal(t, defaultModel, cfg.PlannerModel)
	assert.Equal(t, 7, cfg.MaxSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, 0.1, cfg.ChangeThreshold)
	assert.False(t, cfg.BrowserHeadless)
	assert.Equal(t, "dataset", cfg.DatasetDir)
	assert.Equal(t, "log", cfg.LogDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewPlannerSelection(t *testing.T) {
	reg := service.NewActionRegistry()
	action.RegisterBuiltins(reg)
	base := Config{PlannerAPIKey: "sk-test", PlannerModel: "test-model"}

	t.Run("default is openrouter", func(t *testing.T) {
		p, err := newPlanner(base, reg, logger.Nop())
		require.NoError(t, err)
		assert.IsType(t, &openrouter.PlannerAdapter{}, p)
	})

	t.Run("langchain", func(t *testing.T) {
		cfg := base
		cfg.PlannerProvider = "langchain"
		p, err := newPlanner(cfg, reg, logger.Nop())
		require.NoError(t, err)
		assert.IsType(t, &langchain.PlannerAdapter{}, p)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base
		cfg.PlannerProvider = "palmreader"
		_, err := newPlanner(cfg, reg, logger.Nop())
		assert.ErrorContains(t, err, "palmreader")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := newPlanner(Config{}, reg, logger.Nop())
		assert.ErrorContains(t, err, "required")
	})
}

func TestNewContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	cfg := Config{
		TaskName:         "container-smoke",
		PlannerAPIKey:    "sk-test",
		BrowserHeadless:  true,
		BrowserNoSandbox: true,
		LogDir:           t.TempDir(),
		DatasetDir:       t.TempDir(),
	}

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Runner)
	assert.NotNil(t, c.Planner)
	assert.NotNil(t, c.Browser)

	kinds := c.Actions.Kinds()
	assert.Contains(t, kinds, entity.ActionNavigate)
	assert.Contains(t, kinds, entity.ActionDone)
	assert.Contains(t, kinds, action.ScrollKind)
}
