package config

import "time"

// RetryConfig parameterizes the exponential-backoff retry wrapper (C5)
// applied to every agent invocation.
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries" validate:"gte=0"`
	InitialDelay time.Duration `yaml:"initial_delay" validate:"gt=0"`
	Jitter       bool          `yaml:"jitter"`
}

// DefaultRetryConfig is used when an agent has no explicit override.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialDelay: 500 * time.Millisecond, Jitter: true}
}

// AgentRetryConfig holds per-agent RetryConfig overrides, merged onto
// DefaultRetryConfig with dario.cat/mergo the same way loader.go merges
// YAML defaults onto built-in defaults.
type AgentRetryConfig struct {
	IdeaGenerator RetryConfig `yaml:"idea_generator"`
	Critic        RetryConfig `yaml:"critic"`
	Advocate      RetryConfig `yaml:"advocate"`
	Skeptic       RetryConfig `yaml:"skeptic"`
	Improver      RetryConfig `yaml:"improver"`
}
