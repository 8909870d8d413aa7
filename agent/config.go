package agent

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/agentcore/agenterr"
	"github.com/jonwraymond/agentcore/resilience"
)

// CircuitBreakerSettings configures the orchestrator's circuit breaker.
type CircuitBreakerSettings struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// MetricsSettings configures the orchestrator's metrics collector.
type MetricsSettings struct {
	Enabled bool
	Labels  map[string]string
}

// Config is the orchestrator configuration surface.
type Config struct {
	// Model is the backend model identifier passed through to the invoker.
	Model string

	// Temperature must be in [0, 2].
	Temperature float64

	// MaxTokens must be in [1, 128000].
	MaxTokens int

	// MaxIterations must be in [1, 100].
	MaxIterations int

	// Timeout is the default per-execution deadline.
	Timeout time.Duration

	// MaxConcurrent bounds concurrent executions when > 0.
	MaxConcurrent int

	Retry          resilience.RetryConfig
	CircuitBreaker CircuitBreakerSettings
	Metrics        MetricsSettings
}

// DefaultConfig returns the standard orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		Model:         "gpt-4o",
		Temperature:   0.7,
		MaxTokens:     4096,
		MaxIterations: 10,
		Timeout:       30 * time.Second,
		Retry:         resilience.DefaultRetryConfig(),
		CircuitBreaker: CircuitBreakerSettings{
			Enabled:          true,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		},
		Metrics: MetricsSettings{Enabled: true},
	}
}

// Validate checks the configured bounds. Violations are non-retryable
// validation errors.
func (c Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return agenterr.NewValidation("temperature", c.Temperature, "temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 || c.MaxTokens > 128000 {
		return agenterr.NewValidation("maxTokens", c.MaxTokens, "maxTokens must be between 1 and 128000")
	}
	if c.MaxIterations < 1 || c.MaxIterations > 100 {
		return agenterr.NewValidation("maxIterations", c.MaxIterations, "maxIterations must be between 1 and 100")
	}
	return nil
}

// fileConfig is the YAML shape of the recognized option surface.
// Durations are expressed in milliseconds.
type fileConfig struct {
	Model         *string  `yaml:"model"`
	Temperature   *float64 `yaml:"temperature"`
	MaxTokens     *int     `yaml:"maxTokens"`
	MaxIterations *int     `yaml:"maxIterations"`
	Timeout       *int64   `yaml:"timeout"`
	MaxConcurrent *int     `yaml:"maxConcurrent"`

	Retry struct {
		MaxRetries *int     `yaml:"maxRetries"`
		BaseDelay  *int64   `yaml:"baseDelay"`
		MaxDelay   *int64   `yaml:"maxDelay"`
		Factor     *float64 `yaml:"factor"`
	} `yaml:"retry"`

	CircuitBreaker struct {
		Enabled          *bool  `yaml:"enabled"`
		FailureThreshold *int   `yaml:"failureThreshold"`
		SuccessThreshold *int   `yaml:"successThreshold"`
		Timeout          *int64 `yaml:"timeout"`
	} `yaml:"circuitBreaker"`

	Metrics struct {
		Enabled *bool             `yaml:"enabled"`
		Labels  map[string]string `yaml:"labels"`
	} `yaml:"metrics"`
}

// LoadConfig reads a YAML config file, expanding ${VAR} environment
// references, and overlays it on DefaultConfig. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.Temperature != nil {
		cfg.Temperature = *fc.Temperature
	}
	if fc.MaxTokens != nil {
		cfg.MaxTokens = *fc.MaxTokens
	}
	if fc.MaxIterations != nil {
		cfg.MaxIterations = *fc.MaxIterations
	}
	if fc.Timeout != nil {
		cfg.Timeout = time.Duration(*fc.Timeout) * time.Millisecond
	}
	if fc.MaxConcurrent != nil {
		cfg.MaxConcurrent = *fc.MaxConcurrent
	}

	if fc.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *fc.Retry.MaxRetries
	}
	if fc.Retry.BaseDelay != nil {
		cfg.Retry.BaseDelay = time.Duration(*fc.Retry.BaseDelay) * time.Millisecond
	}
	if fc.Retry.MaxDelay != nil {
		cfg.Retry.MaxDelay = time.Duration(*fc.Retry.MaxDelay) * time.Millisecond
	}
	if fc.Retry.Factor != nil {
		cfg.Retry.Factor = *fc.Retry.Factor
	}

	if fc.CircuitBreaker.Enabled != nil {
		cfg.CircuitBreaker.Enabled = *fc.CircuitBreaker.Enabled
	}
	if fc.CircuitBreaker.FailureThreshold != nil {
		cfg.CircuitBreaker.FailureThreshold = *fc.CircuitBreaker.FailureThreshold
	}
	if fc.CircuitBreaker.SuccessThreshold != nil {
		cfg.CircuitBreaker.SuccessThreshold = *fc.CircuitBreaker.SuccessThreshold
	}
	if fc.CircuitBreaker.Timeout != nil {
		cfg.CircuitBreaker.Timeout = time.Duration(*fc.CircuitBreaker.Timeout) * time.Millisecond
	}

	if fc.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.Labels != nil {
		cfg.Metrics.Labels = fc.Metrics.Labels
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
