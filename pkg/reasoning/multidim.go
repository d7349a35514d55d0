// Package reasoning implements the Reasoning Engine (C8):
// multi-dimensional evaluation and logical inference over a batch of
// ideas.
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

// MultiDimEvaluator scores a batch of ideas across the seven fixed
// dimensions. It requires a live Router; there is no keyword fallback.
type MultiDimEvaluator struct {
	Router  *router.Router
	Schemas *schema.Registry
	Retry   config.RetryConfig
}

// NewMultiDimEvaluator builds a MultiDimEvaluator.
func NewMultiDimEvaluator(r *router.Router, s *schema.Registry, retryCfg config.RetryConfig) *MultiDimEvaluator {
	return &MultiDimEvaluator{Router: r, Schemas: s, Retry: retryCfg}
}

// EvaluateBatch scores ideas, returning one MultiDimEvaluation per idea
// in input order.
func (e *MultiDimEvaluator) EvaluateBatch(ctx context.Context, ideas []models.Idea, topicContext string, temperature float64) ([]models.MultiDimEvaluation, error) {
	if e.Router == nil {
		return nil, errs.NewConfigurationError("MultiDimEvaluator requires a live Router")
	}
	if len(ideas) == 0 {
		return nil, errs.NewValidationError("ideas", "must not be empty")
	}

	prompt := buildMultiDimPrompt(ideas, topicContext)
	resp, _, err := e.Router.GenerateStructured(ctx, llmprovider.Request{
		Prompt:      prompt,
		SchemaName:  string(schema.NameMultiDimBatch),
		Temperature: temperature,
	}, string(schema.NameMultiDimBatch), nil)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(resp.JSON), &raw); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := e.Schemas.Validate(schema.NameMultiDimBatch, raw); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("response does not match %s: %v", schema.NameMultiDimBatch, err))
	}

	var batch models.MultiDimBatch
	if err := json.Unmarshal([]byte(resp.JSON), &batch); err != nil {
		return nil, errs.NewSchemaValidationError("", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := schema.ValidateRecord(batch); err != nil {
		return nil, err
	}
	if len(batch.Scores) != len(ideas) {
		return nil, errs.NewSchemaValidationError("scores", "dimension score count does not match idea count")
	}

	out := make([]models.MultiDimEvaluation, len(batch.Scores))
	for i, s := range batch.Scores {
		out[i] = computeEvaluation(clamp(s))
	}
	return out, nil
}

func clamp(s models.DimensionScore) models.DimensionScore {
	c := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 10 {
			return 10
		}
		return v
	}
	s.Feasibility = c(s.Feasibility)
	s.Innovation = c(s.Innovation)
	s.Impact = c(s.Impact)
	s.CostEffectiveness = c(s.CostEffectiveness)
	s.Scalability = c(s.Scalability)
	s.RiskAssessment = c(s.RiskAssessment)
	s.Timeline = c(s.Timeline)
	return s
}

// computeEvaluation derives overallScore (simple mean), weightedScore
// (per models.DimensionWeights), and confidenceInterval = max(0, 1 -
// variance/25).
func computeEvaluation(s models.DimensionScore) models.MultiDimEvaluation {
	scores := s.AsMap()

	var sum, weightedSum float64
	for dim, v := range scores {
		sum += v
		weightedSum += v * models.DimensionWeights[dim]
	}
	overall := sum / float64(len(scores))

	var variance float64
	for _, v := range scores {
		d := v - overall
		variance += d * d
	}
	variance /= float64(len(scores))

	confidence := 1 - variance/25
	if confidence < 0 {
		confidence = 0
	}

	return models.MultiDimEvaluation{
		IdeaIndex:          s.IdeaIndex,
		Dimensions:         s,
		OverallScore:       overall,
		WeightedScore:      weightedSum,
		ConfidenceInterval: confidence,
		Summary:            programmaticSummary(s, overall),
	}
}

// programmaticSummary builds every evaluation's summary from its scores;
// no LLM call is made for summary prose.
func programmaticSummary(s models.DimensionScore, overall float64) string {
	return fmt.Sprintf(
		"Overall score %.1f/10: feasibility %.1f, innovation %.1f, impact %.1f, cost-effectiveness %.1f, scalability %.1f, risk %.1f, timeline %.1f.",
		overall, s.Feasibility, s.Innovation, s.Impact, s.CostEffectiveness, s.Scalability, s.RiskAssessment, s.Timeline)
}

func buildMultiDimPrompt(ideas []models.Idea, topicContext string) string {
	prompt := "Score each idea below across seven dimensions (0-10): feasibility, innovation, impact, cost_effectiveness, scalability, risk_assessment, timeline.\n\n"
	prompt += topicContext + "\n\n"
	for _, idea := range ideas {
		prompt += fmt.Sprintf("[%d] %s: %s\n", idea.Index, idea.Title, idea.Description)
	}
	return prompt
}
