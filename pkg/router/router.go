// Package router implements the Router (C4): the single entry point for
// all LLM usage, selecting between LocalProvider and CloudProvider,
// caching responses, retrying fallback exactly once, and recording
// OpenTelemetry metrics for every call.
package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/madspark-dev/madspark/pkg/cache"
	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/telemetry"
)

// Router is the single entry point for all structured-output LLM calls.
type Router struct {
	local  llmprovider.Provider
	cloud  llmprovider.Provider
	cache  *cache.Cache
	metrics *telemetry.RouterMetrics

	fallbackEnabled bool
	cachingEnabled  bool
}

// Options configures a Router.
type Options struct {
	Local           llmprovider.Provider
	Cloud           llmprovider.Provider
	Cache           *cache.Cache
	Metrics         *telemetry.RouterMetrics
	FallbackEnabled bool
	CachingEnabled  bool
}

var (
	instance *Router
	mu       sync.Mutex
)

// Get returns the process-wide Router singleton, constructing it on
// first call under a double-checked lock — adapted from sync.Once
// (which cannot take per-call construction arguments) to an explicit
// check-lock-check so the first caller's Options win and every later
// caller gets the same instance regardless of what Options it passes.
func Get(opts Options) *Router {
	if instance != nil {
		return instance
	}
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance
	}
	instance = New(opts)
	return instance
}

// New builds a standalone Router, bypassing the singleton — used by
// tests that need independent Router instances.
func New(opts Options) *Router {
	return &Router{
		local:           opts.Local,
		cloud:           opts.Cloud,
		cache:           opts.Cache,
		metrics:         opts.Metrics,
		fallbackEnabled: opts.FallbackEnabled,
		cachingEnabled:  opts.CachingEnabled,
	}
}

// Reset clears the singleton instance. Test-only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// GenerateStructured is the Router's single entry point: compute cache
// key, select provider, invoke with fallback, cache on success, record
// metrics throughout.
func (r *Router) GenerateStructured(ctx context.Context, req llmprovider.Request, schemaIdentity string, kwargs map[string]string) (llmprovider.Response, map[string]interface{}, error) {
	start := time.Now()
	if r.metrics != nil {
		r.metrics.RecordRequest(ctx)
	}

	key := ""
	if r.cachingEnabled && r.cache != nil {
		key = cache.Key(cache.KeyInputs{
			Prompt:            req.Prompt,
			SchemaIdentity:    schemaIdentity,
			Temperature:       req.Temperature,
			ProviderForced:    string(req.ForceProvider),
			SystemInstruction: req.SystemInstruction,
			Files:             toFileEntries(req.Files),
			URLs:              req.URLs,
			Kwargs:            kwargs,
		})
		if entry, ok := r.cache.Get(ctx, key); ok {
			if r.metrics != nil {
				r.metrics.RecordCacheHit(ctx)
			}
			meta := entry.Meta
			if meta == nil {
				meta = map[string]interface{}{}
			}
			meta["cached"] = true
			return llmprovider.Response{JSON: mustMarshalRecord(entry.Record)}, meta, nil
		}
	}

	providers, err := r.selectProviders(req)
	if err != nil {
		return llmprovider.Response{}, nil, err
	}

	var attempts []errs.ProviderAttempt
	var resp llmprovider.Response
	var callErr error

	for i, p := range providers {
		if r.metrics != nil {
			r.metrics.RecordProviderCall(ctx, p.ProviderName())
		}
		if i > 0 && r.metrics != nil {
			r.metrics.RecordFallback(ctx)
		}
		resp, callErr = p.GenerateStructured(ctx, req)
		if callErr == nil {
			break
		}
		attempts = append(attempts, errs.ProviderAttempt{Provider: p.ProviderName(), Err: callErr})
		if req.ForceProvider != "" || !r.fallbackEnabled {
			break
		}
	}

	elapsed := time.Since(start)
	if callErr != nil {
		return llmprovider.Response{}, nil, errs.NewAllProvidersFailedError(attempts)
	}

	meta := map[string]interface{}{
		"provider":          resp.ProviderName,
		"model":             resp.ModelName,
		"promptTokens":      resp.PromptTokens,
		"completionTokens":  resp.CompletionTokens,
		"latencyMillis":     elapsed.Milliseconds(),
		"cached":            false,
	}

	if r.metrics != nil {
		cost := estimateCost(providers, resp)
		r.metrics.RecordUsage(ctx, resp.PromptTokens+resp.CompletionTokens, cost, elapsed.Milliseconds())
	}

	if r.cachingEnabled && r.cache != nil && key != "" {
		r.cache.Set(ctx, key, cache.Entry{
			Record: map[string]interface{}{"json": resp.JSON},
			Meta:   meta,
		})
	}

	return resp, meta, nil
}

// selectProviders applies the provider selection rules, returning the
// ordered list of providers to attempt (length 1 when forced, when
// files/URLs require the cloud provider, or when only one provider is
// usable; up to 2 otherwise). With fallback disabled the caller stops
// after the first entry.
func (r *Router) selectProviders(req llmprovider.Request) ([]llmprovider.Provider, error) {
	if req.ForceProvider != "" {
		p := r.providerFor(req.ForceProvider)
		if p == nil {
			return nil, errs.NewProviderError(string(req.ForceProvider), fmt.Errorf("provider unavailable"))
		}
		return []llmprovider.Provider{p}, nil
	}

	if len(req.Files) > 0 || len(req.URLs) > 0 {
		if r.cloud == nil {
			return nil, errs.NewProviderError("cloud", fmt.Errorf("cloud provider required for files/URLs but not configured"))
		}
		return []llmprovider.Provider{r.cloud}, nil
	}

	primary, secondary := r.local, r.cloud
	if primary != nil && primary.HealthCheck(context.Background()) == nil {
		if secondary != nil {
			return []llmprovider.Provider{primary, secondary}, nil
		}
		return []llmprovider.Provider{primary}, nil
	}
	if secondary != nil {
		return []llmprovider.Provider{secondary}, nil
	}
	return nil, errs.NewProviderError("local", fmt.Errorf("no healthy provider available"))
}

func (r *Router) providerFor(kind config.ProviderKind) llmprovider.Provider {
	switch kind {
	case config.ProviderLocal:
		return r.local
	case config.ProviderCloud:
		return r.cloud
	default:
		return nil
	}
}

func toFileEntries(files []llmprovider.FileRef) []cache.FileEntry {
	out := make([]cache.FileEntry, len(files))
	for i, f := range files {
		out[i] = cache.FileEntry{Path: f.Path, Hash: f.Hash}
	}
	return out
}

func estimateCost(providers []llmprovider.Provider, resp llmprovider.Response) float64 {
	for _, p := range providers {
		if p.ProviderName() == resp.ProviderName {
			promptCost, completionCost := p.CostPerToken()
			return float64(resp.PromptTokens)*promptCost + float64(resp.CompletionTokens)*completionCost
		}
	}
	return 0
}

func mustMarshalRecord(record map[string]interface{}) string {
	if v, ok := record["json"].(string); ok {
		return v
	}
	return "{}"
}
