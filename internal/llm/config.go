package llm

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RequestKind identifies which of the gateway's request shapes is being made.
type RequestKind string

const (
	KindPlan     RequestKind = "plan"
	KindTasks    RequestKind = "tasks"
	KindOverview RequestKind = "overview"
)

// RequestConfig holds per-request model parameters.
type RequestConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides Config.TimeoutMs if > 0; ignored for streams
}

// Config holds all configuration for the model gateway. Values are read from
// SPRINTWISE_LLM_* environment variables on top of DefaultConfig.
type Config struct {
	Endpoint      string `envconfig:"SPRINTWISE_LLM_ENDPOINT"`
	APIKey        string `envconfig:"SPRINTWISE_LLM_API_KEY"`
	Model         string `envconfig:"SPRINTWISE_LLM_MODEL"`
	TimeoutMs     int    `envconfig:"SPRINTWISE_LLM_TIMEOUT_MS"`
	DialTimeoutMs int    `envconfig:"SPRINTWISE_LLM_DIAL_TIMEOUT_MS"`
	LogCalls      bool   `envconfig:"SPRINTWISE_LLM_LOG_CALLS"`

	PlanTimeoutMs     int `envconfig:"SPRINTWISE_LLM_PLAN_TIMEOUT_MS"`
	TasksTimeoutMs    int `envconfig:"SPRINTWISE_LLM_TASKS_TIMEOUT_MS"`
	OverviewMaxTokens int `envconfig:"SPRINTWISE_LLM_OVERVIEW_MAX_TOKENS"`

	Requests map[RequestKind]RequestConfig `ignored:"true"`
}

// DefaultConfig returns a Config with sensible defaults and no API key.
func DefaultConfig() Config {
	return Config{
		Endpoint:      "https://api.openai.com/v1",
		Model:         "gpt-4o-mini",
		TimeoutMs:     60000,
		DialTimeoutMs: 5000,
		LogCalls:      true,
		Requests: map[RequestKind]RequestConfig{
			KindPlan:     {Temperature: 0.2, MaxTokens: 2048},
			KindTasks:    {Temperature: 0.2, MaxTokens: 1024},
			KindOverview: {Temperature: 0.7, MaxTokens: 600},
		},
	}
}

// LoadConfig reads gateway configuration from the environment, falling back
// to DefaultConfig for any unset value.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading llm config: %w", err)
	}
	cfg.applyOverrides()
	return cfg, nil
}

func (c *Config) applyOverrides() {
	setTimeout := func(kind RequestKind, ms int) {
		if ms <= 0 {
			return
		}
		rc := c.Requests[kind]
		rc.TimeoutMs = ms
		c.Requests[kind] = rc
	}
	setTimeout(KindPlan, c.PlanTimeoutMs)
	setTimeout(KindTasks, c.TasksTimeoutMs)

	if c.OverviewMaxTokens > 0 {
		rc := c.Requests[KindOverview]
		rc.MaxTokens = c.OverviewMaxTokens
		c.Requests[KindOverview] = rc
	}
}

// RequestTimeout returns the effective timeout for a request kind. Zero means
// no timeout beyond the caller's context.
func (c Config) RequestTimeout(kind RequestKind) time.Duration {
	if rc, ok := c.Requests[kind]; ok && rc.TimeoutMs > 0 {
		return time.Duration(rc.TimeoutMs) * time.Millisecond
	}
	if c.TimeoutMs > 0 {
		return time.Duration(c.TimeoutMs) * time.Millisecond
	}
	return 0
}

// Request returns the parameters for kind, defaulting to DefaultConfig's.
func (c Config) Request(kind RequestKind) RequestConfig {
	if rc, ok := c.Requests[kind]; ok {
		return rc
	}
	return DefaultConfig().Requests[kind]
}
