package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLMProviderHint selects between automatic, local-only, or cloud-only
// provider selection via MADSPARK_LLM_PROVIDER.
type LLMProviderHint string

const (
	ProviderHintAuto  LLMProviderHint = "auto"
	ProviderHintLocal LLMProviderHint = "local"
	ProviderHintCloud LLMProviderHint = "cloud"
)

// ModelTier hints at local-provider model size via MADSPARK_MODEL_TIER.
type ModelTier string

const (
	ModelTierFast     ModelTier = "fast"
	ModelTierBalanced ModelTier = "balanced"
	ModelTierQuality  ModelTier = "quality"
)

// EnvConfig is the fully-resolved set of recognized environment
// variables, parsed once at process start.
type EnvConfig struct {
	Mode               string // MADSPARK_MODE: "mock" | "api" (default)
	LLMProvider        LLMProviderHint
	ModelTier          ModelTier
	RouterDisabled     bool
	FallbackEnabled    bool
	CacheEnabled       bool
	CacheTTL           time.Duration
	LocalLLMHost       string
	LocalRequestTimeout time.Duration
	CloudAPIKey        string
	MaxConcurrentAgents int
	DefaultTimeout     time.Duration
	MinTimeout         time.Duration
	MaxTimeout         time.Duration
	NoveltyThreshold   float64
	TopCandidates      int
}

// placeholderAPIKeyPatterns rejects obviously-fake API keys: values
// left over from a checked-in example .env that are non-empty but not
// a real key.
var placeholderAPIKeyPatterns = []string{
	"your-api-key", "changeme", "placeholder", "xxx", "test-key", "<api-key>",
}

// IsPlaceholderAPIKey reports whether key looks like an unfilled template value.
func IsPlaceholderAPIKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return true
	}
	lower := strings.ToLower(key)
	for _, p := range placeholderAPIKeyPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// LoadEnvConfig reads and validates every recognized environment
// variable, falling back to documented defaults and logging a warning
// on missing or invalid values.
func LoadEnvConfig() EnvConfig {
	cfg := EnvConfig{
		Mode:                getEnvOrDefault("MADSPARK_MODE", "api"),
		LLMProvider:         LLMProviderHint(getEnvOrDefault("MADSPARK_LLM_PROVIDER", string(ProviderHintAuto))),
		ModelTier:           ModelTier(getEnvOrDefault("MADSPARK_MODEL_TIER", string(ModelTierBalanced))),
		RouterDisabled:      getEnvBool("MADSPARK_NO_ROUTER", false),
		FallbackEnabled:     getEnvBool("MADSPARK_FALLBACK_ENABLED", true),
		CacheEnabled:        getEnvBool("MADSPARK_CACHE_ENABLED", true),
		CacheTTL:            getEnvDurationSeconds("MADSPARK_CACHE_TTL", 24*time.Hour),
		LocalLLMHost:        getEnvOrDefault("LOCAL_LLM_HOST", "localhost:50051"),
		LocalRequestTimeout: getEnvDurationSeconds("LOCAL_REQUEST_TIMEOUT", 600*time.Second),
		CloudAPIKey:         os.Getenv("CLOUD_API_KEY"),
		MaxConcurrentAgents: getEnvInt("MAX_CONCURRENT_AGENTS", 10),
		DefaultTimeout:      getEnvDurationSeconds("MADSPARK_DEFAULT_TIMEOUT", 1200*time.Second),
		MinTimeout:          getEnvDurationSeconds("MIN_TIMEOUT", 60*time.Second),
		MaxTimeout:          getEnvDurationSeconds("MAX_TIMEOUT", 3600*time.Second),
		NoveltyThreshold:    getEnvFloat("MADSPARK_NOVELTY_THRESHOLD", 0.8),
		TopCandidates:       getEnvInt("MADSPARK_TOP_CANDIDATES", 2),
	}

	if cfg.NoveltyThreshold < 0 || cfg.NoveltyThreshold > 1 {
		slog.Warn("MADSPARK_NOVELTY_THRESHOLD out of [0,1], using default", "value", cfg.NoveltyThreshold)
		cfg.NoveltyThreshold = 0.8
	}
	if cfg.TopCandidates < 1 {
		slog.Warn("MADSPARK_TOP_CANDIDATES must be positive, using default", "value", cfg.TopCandidates)
		cfg.TopCandidates = 2
	}

	return cfg
}

// IsMock reports whether MADSPARK_MODE disables real provider calls.
func (c EnvConfig) IsMock() bool { return c.Mode == "mock" }

// ClampWorkflowTimeout bounds a requested workflow timeout to [MinTimeout, MaxTimeout].
func (c EnvConfig) ClampWorkflowTimeout(requested time.Duration) time.Duration {
	if requested <= 0 {
		return c.DefaultTimeout
	}
	if requested < c.MinTimeout {
		return c.MinTimeout
	}
	if requested > c.MaxTimeout {
		return c.MaxTimeout
	}
	return requested
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		slog.Warn("invalid boolean env var, using default", "key", key, "value", val)
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", val)
		return defaultVal
	}
	return n
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		slog.Warn("invalid float env var, using default", "key", key, "value", val)
		return defaultVal
	}
	return f
}

func getEnvDurationSeconds(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs <= 0 {
		slog.Warn("invalid duration-seconds env var, using default", "key", key, "value", val)
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
