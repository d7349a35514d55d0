// Package agents implements the five agent functions (C6): Idea
// Generator, Critic, Advocate, Skeptic, and Improver. Each is a small
// struct holding a *router.Router and a *schema.Registry with a single
// exported method: validate inputs, build a prompt via an injected
// PromptLibrary, call the Router for structured output, decode and
// validate the result.
//
// Each agent's call path follows the same shape: call, validate,
// retry-on-parse-failure, implemented as the schema re-prompt loop below.
package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/retry"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// PromptLibrary builds the natural-language prompt text for each agent
// call. Prompt authorship is a collaborator's concern, out of scope for
// this module — agents only need *some* implementation to compose with
// at the call site.
type PromptLibrary interface {
	IdeaGeneratorPrompt(topic, context string) string
	CriticPrompt(ideas []models.Idea, topic, context string) string
	AdvocatePrompt(candidates []models.Candidate, topic, context string) string
	SkepticPrompt(candidates []models.Candidate, topic, context string) string
	ImproverPrompt(candidates []models.Candidate, topic, context string) string
}

// languageConsistencyInstruction is prepended to every prompt so the
// LLM replies in the same language as the request.
const languageConsistencyInstruction = "Respond in the same language as the topic and context provided below.\n\n"

// maxSchemaRetries bounds how many times an agent re-prompts after a
// schema-validation failure before giving up: a hard cap on persuasion
// attempts rather than a configurable one.
const maxSchemaRetries = 2

// base holds the collaborators every agent needs.
type base struct {
	Router   *router.Router
	Schemas  *schema.Registry
	Prompts  PromptLibrary
	Retry    config.RetryConfig
}

// call runs one structured-output round trip: invokes the Router, runs
// the raw JSON through the Schema Registry's OpenAPI structural check
// (types, required fields, min/max, array bounds), decodes it into the
// typed record, then runs the record through validator-tag validation
// for the checks an OpenAPI schema can't express (e.g. an idea_index
// that must line up with another field). The round trip itself retries
// under pkg/retry (transport/provider failures); either validation
// failure re-prompts in place up to maxSchemaRetries (a different
// failure mode: the provider answered, but the answer didn't parse).
func (b base) call(ctx context.Context, prompt string, schemaName schema.Name, temperature float64, out interface{}) (models.LLMResponseMeta, error) {
	if prompt == "" {
		return models.LLMResponseMeta{}, errs.NewValidationError("prompt", "must not be empty")
	}

	var meta models.LLMResponseMeta
	_, err := retry.Do(ctx, b.Retry, func(ctx context.Context) (struct{}, error) {
		var lastErr error
		for attempt := 0; attempt <= maxSchemaRetries; attempt++ {
			resp, respMeta, callErr := b.Router.GenerateStructured(ctx, llmprovider.Request{
				Prompt:      languageConsistencyInstruction + prompt,
				SchemaName:  string(schemaName),
				Temperature: temperature,
			}, string(schemaName), nil)
			if callErr != nil {
				return struct{}{}, callErr
			}

			var raw interface{}
			if err := json.Unmarshal([]byte(resp.JSON), &raw); err != nil {
				lastErr = errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
				continue
			}
			if err := b.Schemas.Validate(schemaName, raw); err != nil {
				lastErr = errs.NewSchemaValidationError("", fmt.Sprintf("response does not match %s: %v", schemaName, err))
				continue
			}
			if err := json.Unmarshal([]byte(resp.JSON), out); err != nil {
				lastErr = errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
				continue
			}
			if err := schema.ValidateRecord(out); err != nil {
				lastErr = err
				continue
			}

			meta = metaFrom(respMeta)
			return struct{}{}, nil
		}
		return struct{}{}, lastErr
	})
	return meta, err
}

func metaFrom(m map[string]interface{}) models.LLMResponseMeta {
	getString := func(k string) string { v, _ := m[k].(string); return v }
	getInt := func(k string) int {
		switch v := m[k].(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
		return 0
	}
	getInt64 := func(k string) int64 {
		switch v := m[k].(type) {
		case int64:
			return v
		case float64:
			return int64(v)
		}
		return 0
	}
	getFloat := func(k string) float64 { v, _ := m[k].(float64); return v }
	getBool := func(k string) bool { v, _ := m[k].(bool); return v }

	return models.LLMResponseMeta{
		Provider:      getString("provider"),
		Model:         getString("model"),
		TokensUsed:    getInt("promptTokens") + getInt("completionTokens"),
		LatencyMillis: getInt64("latencyMillis"),
		Cost:          getFloat("cost"),
		Cached:        getBool("cached"),
	}
}
