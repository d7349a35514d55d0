// Package llmprovider implements the two concrete LLM Provider backends
// (C2): LocalProvider (on-premise inference over gRPC) and CloudProvider
// (Anthropic's hosted API), each wrapped in a sony/gobreaker circuit
// breaker so the Router (C4) can treat health as a first-class signal
// instead of reacting to raw call failures.
package llmprovider

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
)

// Request is one structured-output call: a prompt plus the name of the
// schema (pkg/schema.Name) the response must satisfy.
type Request struct {
	Prompt             string
	SchemaName         string
	Temperature        float64
	SystemInstruction  string
	Files              []FileRef
	URLs               []string
	ForceProvider      config.ProviderKind
}

// FileRef is a multimodal input file: its path and content hash, used
// both for cache-key derivation (pkg/cache) and for the 50MB size gate.
type FileRef struct {
	Path string
	Hash string
	Size int64
}

// Response is a structured-output call's result: the raw JSON payload
// (unmarshalled by the caller into the schema's Go type) plus usage
// metadata for cost/latency accounting.
type Response struct {
	JSON             string
	PromptTokens     int
	CompletionTokens int
	ProviderName     string
	ModelName        string
}

// Provider is the interface every concrete LLM backend implements: a
// single structured-output call, rather than a streaming chunk API, the
// shape the agents (C6) and reasoning engine (C8) need.
//
//go:generate mockgen -source=provider.go -destination=mockprovider/provider_mock.go -package=mockprovider
type Provider interface {
	GenerateStructured(ctx context.Context, req Request) (Response, error)
	HealthCheck(ctx context.Context) error
	ProviderName() string
	ModelName() string
	SupportsMultimodal() bool
	CostPerToken() (prompt, completion float64)
}
