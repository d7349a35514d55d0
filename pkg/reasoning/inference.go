package reasoning

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// LogicalInferenceEngine performs one of five analysis types per idea.
// Unlike MultiDimEvaluator, it degrades gracefully: when Router is nil
// (no LLM available), AnalyzeBatch builds a rule-based fallback result
// instead of failing.
type LogicalInferenceEngine struct {
	Router  *router.Router
	Schemas *schema.Registry
	Retry   config.RetryConfig
}

// NewLogicalInferenceEngine builds a LogicalInferenceEngine. Router may
// be nil to force the rule-based fallback path (used in tests and in
// deployments with no configured LLM backend).
func NewLogicalInferenceEngine(r *router.Router, s *schema.Registry, retryCfg config.RetryConfig) *LogicalInferenceEngine {
	return &LogicalInferenceEngine{Router: r, Schemas: s, Retry: retryCfg}
}

// AnalyzeBatch returns one LogicalInference per idea, aligned by index.
func (e *LogicalInferenceEngine) AnalyzeBatch(ctx context.Context, ideas []models.Idea, topicContext string, analysisType models.InferenceAnalysisType, temperature float64) ([]models.LogicalInference, error) {
	if len(ideas) == 0 {
		return nil, errs.NewValidationError("ideas", "must not be empty")
	}

	if e.Router == nil {
		out := make([]models.LogicalInference, len(ideas))
		for i, idea := range ideas {
			out[i] = ruleBasedFallback(idea, analysisType)
		}
		return out, nil
	}

	prompt := buildInferencePrompt(ideas, topicContext, analysisType)
	resp, _, err := e.Router.GenerateStructured(ctx, llmprovider.Request{
		Prompt:      prompt,
		SchemaName:  string(schema.NameInferenceBatch),
		Temperature: temperature,
	}, string(schema.NameInferenceBatch), nil)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(resp.JSON), &raw); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := e.Schemas.Validate(schema.NameInferenceBatch, raw); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("response does not match %s: %v", schema.NameInferenceBatch, err))
	}

	var batch models.InferenceBatch
	if err := json.Unmarshal([]byte(resp.JSON), &batch); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := schema.ValidateRecord(batch); err != nil {
		return nil, err
	}
	if len(batch.Results) != len(ideas) {
		return nil, errs.NewSchemaValidationError("results", "inference result count does not match idea count")
	}
	return batch.Results, nil
}

// ruleBasedFallback builds a minimal valid LogicalInference when no LLM
// is available: a one-step inference chain, confidence 0.5, and an
// improvement hint suggesting AI-assisted analysis.
func ruleBasedFallback(idea models.Idea, analysisType models.InferenceAnalysisType) models.LogicalInference {
	return models.LogicalInference{
		IdeaIndex:      idea.Index,
		AnalysisType:   analysisType,
		InferenceChain: []string{fmt.Sprintf("No LLM available; %q accepted as stated.", idea.Title)},
		Conclusion:     "Unable to perform deep logical analysis without a live LLM backend.",
		Confidence:     0.5,
		Improvements:   []string{"Enable an LLM provider for AI-assisted logical inference."},
	}
}

func buildInferencePrompt(ideas []models.Idea, topicContext string, analysisType models.InferenceAnalysisType) string {
	prompt := fmt.Sprintf("Perform a %q logical inference analysis for each idea below.\n\n", analysisType)
	prompt += topicContext + "\n\n"
	for _, idea := range ideas {
		prompt += fmt.Sprintf("[%d] %s: %s\n", idea.Index, idea.Title, idea.Description)
	}
	return prompt
}
