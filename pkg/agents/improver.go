package agents

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// Improver synthesizes advocacy and skepticism into an improved idea
// per candidate.
type Improver struct{ base }

// NewImprover builds an Improver.
func NewImprover(r *router.Router, s *schema.Registry, p PromptLibrary, retryCfg config.RetryConfig) *Improver {
	return &Improver{base{Router: r, Schemas: s, Prompts: p, Retry: retryCfg}}
}

// Improve produces an ImprovementResponse for the given candidates.
func (im *Improver) Improve(ctx context.Context, candidates []models.Candidate, topic, ctxText string, temperature float64) (models.ImprovementResponse, models.LLMResponseMeta, error) {
	if len(candidates) == 0 {
		return models.ImprovementResponse{}, models.LLMResponseMeta{}, errs.NewValidationError("candidates", "must not be empty")
	}

	prompt := im.Prompts.ImproverPrompt(candidates, topic, ctxText)
	var out models.ImprovementResponse
	meta, err := im.call(ctx, prompt, schema.NameImprovementResponse, temperature, &out)
	if err != nil {
		return models.ImprovementResponse{}, models.LLMResponseMeta{}, err
	}
	return out, meta, nil
}
