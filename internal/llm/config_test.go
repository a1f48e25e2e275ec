package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_OverviewIsWarm(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0.7, cfg.Request(KindOverview).Temperature)
	assert.Positive(t, cfg.Request(KindOverview).MaxTokens)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SPRINTWISE_LLM_ENDPOINT", "http://localhost:8080/v1")
	t.Setenv("SPRINTWISE_LLM_API_KEY", "sk-test")
	t.Setenv("SPRINTWISE_LLM_MODEL", "gpt-test")
	t.Setenv("SPRINTWISE_LLM_TIMEOUT_MS", "9000")
	t.Setenv("SPRINTWISE_LLM_PLAN_TIMEOUT_MS", "15000")
	t.Setenv("SPRINTWISE_LLM_OVERVIEW_MAX_TOKENS", "300")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", cfg.Endpoint)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-test", cfg.Model)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout(KindPlan))
	assert.Equal(t, 9*time.Second, cfg.RequestTimeout(KindTasks))
	assert.Equal(t, 300, cfg.Request(KindOverview).MaxTokens)
}

func TestLoadConfig_DefaultsWhenUnset(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Endpoint, cfg.Endpoint)
	assert.Equal(t, time.Minute, cfg.RequestTimeout(KindPlan))
}

func TestLoadConfig_InvalidNumber(t *testing.T) {
	t.Setenv("SPRINTWISE_LLM_TIMEOUT_MS", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm config")
}

func TestRequestTimeout_ZeroMeansNone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutMs = 0
	assert.Zero(t, cfg.RequestTimeout(KindTasks))
}
