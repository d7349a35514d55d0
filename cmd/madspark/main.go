// Command madspark drives one multi-agent idea-generation workflow run
// from the command line. The interactive CLI, batch file loaders, and
// export formatters are a collaborator's concern, out of scope here;
// this binary exists to wire every component together and exercise
// that wiring end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/madspark-dev/madspark/pkg/agents"
	"github.com/madspark-dev/madspark/pkg/cache"
	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/coordinator"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/promptlib"
	"github.com/madspark-dev/madspark/pkg/reasoning"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
	"github.com/madspark-dev/madspark/pkg/store/postgres"
	"github.com/madspark-dev/madspark/pkg/store/redis"
	"github.com/madspark-dev/madspark/pkg/telemetry"
	"github.com/madspark-dev/madspark/pkg/workerpool"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "path to configuration directory")
	topic := flag.String("topic", "", "workflow topic (required)")
	workflowContext := flag.String("context", "", "workflow context")
	async := flag.Bool("async", true, "run the pipeline with the async coordinator")
	preset := flag.String("preset", string(config.PresetBalanced), "temperature preset: conservative|balanced|creative|wild (overrides presets.yaml)")
	flag.Parse()

	presetFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "preset" {
			presetFlagSet = true
		}
	})

	config.LoadDotEnv(filepath.Join(*configDir, ".env"))
	env := config.LoadEnvConfig()

	if *topic == "" {
		slog.Error("missing required flag", "flag", "-topic")
		os.Exit(1)
	}

	ctx := context.Background()

	otel, err := telemetry.NewProvider(ctx, "madspark")
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer otel.Shutdown(ctx)

	pool := workerpool.New(env.MaxConcurrentAgents)
	pool.Start()
	defer pool.Stop()

	store, err := buildCacheStore(ctx)
	if err != nil {
		slog.Error("failed to initialize cache store", "error", err)
		os.Exit(1)
	}

	respCache := cache.New(env.CacheTTL, cache.DefaultCapacity, store)

	local, cloud := buildProviders(env)

	rtr := router.New(router.Options{
		Local:           local,
		Cloud:           cloud,
		Cache:           respCache,
		Metrics:         otel.Router,
		FallbackEnabled: env.FallbackEnabled,
		CachingEnabled:  env.CacheEnabled,
	})

	schemas := schema.NewRegistry()
	prompts := promptlib.Default{}

	temperatures, retry, err := config.LoadPresets(filepath.Join(*configDir, "presets.yaml"))
	if err != nil {
		slog.Error("failed to load presets", "error", err)
		os.Exit(1)
	}
	if presetFlagSet {
		temperatures = config.NewTemperatureManager(config.Preset(*preset))
	}

	co := &coordinator.Coordinator{
		IdeaGenerator: agents.NewIdeaGenerator(rtr, schemas, prompts, retry.IdeaGenerator),
		Critic:        agents.NewCritic(rtr, schemas, prompts, retry.Critic),
		Advocate:      agents.NewAdvocate(rtr, schemas, prompts, retry.Advocate),
		Skeptic:       agents.NewSkeptic(rtr, schemas, prompts, retry.Skeptic),
		Improver:      agents.NewImprover(rtr, schemas, prompts, retry.Improver),
		MultiDim:      reasoning.NewMultiDimEvaluator(rtr, schemas, retry.Critic),
		Inference:     reasoning.NewLogicalInferenceEngine(rtr, schemas, retry.Critic),
		Temperatures:  temperatures,
		Pool:          pool,

		MaxConcurrentAgents: env.MaxConcurrentAgents,
	}

	params := coordinator.Params{
		Topic:                  *topic,
		Context:                *workflowContext,
		NumTopCandidates:       env.TopCandidates,
		MultiDimensionalEval:   true,
		EnableLogicalInference: true,
		Timeout:                env.DefaultTimeout,
		ProgressCallback: func(message string, fraction float64) {
			slog.Info("workflow progress", "message", message, "fraction", fraction)
		},
	}

	runCtx, cancel := context.WithTimeout(ctx, env.MaxTimeout)
	defer cancel()

	var result models.WorkflowResult
	if *async {
		result, err = co.RunAsync(runCtx, params)
	} else {
		result, err = co.RunSync(runCtx, params)
	}
	if err != nil {
		slog.Error("workflow failed", "error", err)
		os.Exit(1)
	}

	printResult(result)
}

func printResult(wr models.WorkflowResult) {
	fmt.Printf("run %s: %d candidate(s), %d total tokens, $%.4f total cost\n",
		wr.Metadata.RunID, len(wr.Candidates), wr.Metadata.TotalTokens, wr.Metadata.TotalCost)
	for i, c := range wr.Candidates {
		fmt.Printf("\n[%d] %s (initial %.1f -> improved %.1f, delta %.1f, meaningful=%v)\n",
			i, c.OriginalIdea.Title, c.InitialScore, c.ImprovedScore, c.ScoreDelta, c.IsMeaningfulImprovement)
		fmt.Printf("    %s\n", c.ImprovedIdea)
	}
}

// buildProviders wires LocalProvider/CloudProvider per MADSPARK_LLM_PROVIDER
// and MADSPARK_MODEL_TIER, selecting between the two concrete provider backends.
// A provider that fails to construct (unreachable gRPC target, missing API
// key) is simply omitted rather than aborting startup, leaving the Router
// to report ErrProviderUnavailable at call time.
func buildProviders(env config.EnvConfig) (local, cloud llmprovider.Provider) {
	if env.LLMProvider != config.ProviderHintCloud {
		model := modelForTier(env.ModelTier)
		p, err := llmprovider.NewLocalProvider(env.LocalLLMHost, model, []string{"local-vision"}, 0, 0)
		if err != nil {
			slog.Warn("local provider unavailable, continuing without it", "error", err)
		} else {
			local = llmprovider.WithCircuitBreaker(p)
		}
	}

	if env.LLMProvider != config.ProviderHintLocal {
		if config.IsPlaceholderAPIKey(env.CloudAPIKey) {
			slog.Warn("CLOUD_API_KEY missing or placeholder, continuing without cloud provider")
		} else {
			p := llmprovider.NewCloudProvider(env.CloudAPIKey, "claude-sonnet-4-5", 4096, 0, 0)
			cloud = llmprovider.WithCircuitBreaker(p)
		}
	}
	return local, cloud
}

func modelForTier(tier config.ModelTier) string {
	switch tier {
	case config.ModelTierFast:
		return "local-fast"
	case config.ModelTierQuality:
		return "local-quality"
	default:
		return "local-balanced"
	}
}

// buildCacheStore wires the optional persistent cache backend named by
// MADSPARK_CACHE_BACKEND ("postgres", "redis", or unset for in-memory
// only); the Cache can optionally back onto an external store for
// cross-process reuse.
func buildCacheStore(ctx context.Context) (cache.Store, error) {
	switch getEnv("MADSPARK_CACHE_BACKEND", "memory") {
	case "postgres":
		return postgres.New(ctx, postgres.Config{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     5432,
			User:     getEnv("POSTGRES_USER", "madspark"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "madspark"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		})
	case "redis":
		return redis.New(ctx, redis.Config{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		})
	default:
		return nil, nil
	}
}
