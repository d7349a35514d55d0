package agents

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// Critic scores a batch of ideas, one Evaluation per idea in input order.
type Critic struct{ base }

// NewCritic builds a Critic.
func NewCritic(r *router.Router, s *schema.Registry, p PromptLibrary, retryCfg config.RetryConfig) *Critic {
	return &Critic{base{Router: r, Schemas: s, Prompts: p, Retry: retryCfg}}
}

// Evaluate scores ideas against topic/context.
func (c *Critic) Evaluate(ctx context.Context, ideas []models.Idea, topic, ctxText string, temperature float64) (models.CriticEvaluations, models.LLMResponseMeta, error) {
	if len(ideas) == 0 {
		return models.CriticEvaluations{}, models.LLMResponseMeta{}, errs.NewValidationError("ideas", "must not be empty")
	}

	prompt := c.Prompts.CriticPrompt(ideas, topic, ctxText)
	var out models.CriticEvaluations
	meta, err := c.call(ctx, prompt, schema.NameCriticEvaluations, temperature, &out)
	if err != nil {
		return models.CriticEvaluations{}, models.LLMResponseMeta{}, err
	}
	// A short evaluation batch is not an agent-level failure: the
	// coordinator's batch merge (pkg/batch.UpdateCandidatesWithResults)
	// fills missing indices with a placeholder score rather than
	// failing the whole workflow.
	return out, meta, nil
}
