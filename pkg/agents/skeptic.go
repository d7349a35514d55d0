package agents

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// Skeptic raises critical flaws, risks, and questionable assumptions
// for a batch of candidates.
type Skeptic struct{ base }

// NewSkeptic builds a Skeptic.
func NewSkeptic(r *router.Router, s *schema.Registry, p PromptLibrary, retryCfg config.RetryConfig) *Skeptic {
	return &Skeptic{base{Router: r, Schemas: s, Prompts: p, Retry: retryCfg}}
}

// Challenge produces a SkepticismResponse for the given candidates.
func (sk *Skeptic) Challenge(ctx context.Context, candidates []models.Candidate, topic, ctxText string, temperature float64) (models.SkepticismResponse, models.LLMResponseMeta, error) {
	if len(candidates) == 0 {
		return models.SkepticismResponse{}, models.LLMResponseMeta{}, errs.NewValidationError("candidates", "must not be empty")
	}

	prompt := sk.Prompts.SkepticPrompt(candidates, topic, ctxText)
	var out models.SkepticismResponse
	meta, err := sk.call(ctx, prompt, schema.NameSkepticismResponse, temperature, &out)
	if err != nil {
		return models.SkepticismResponse{}, models.LLMResponseMeta{}, err
	}
	return out, meta, nil
}
