package agents

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// Advocate argues for a batch of candidates: strengths, opportunities,
// and responses to the Skeptic's concerns.
type Advocate struct{ base }

// NewAdvocate builds an Advocate.
func NewAdvocate(r *router.Router, s *schema.Registry, p PromptLibrary, retryCfg config.RetryConfig) *Advocate {
	return &Advocate{base{Router: r, Schemas: s, Prompts: p, Retry: retryCfg}}
}

// Argue produces an AdvocacyResponse for the given candidates.
func (a *Advocate) Argue(ctx context.Context, candidates []models.Candidate, topic, ctxText string, temperature float64) (models.AdvocacyResponse, models.LLMResponseMeta, error) {
	if len(candidates) == 0 {
		return models.AdvocacyResponse{}, models.LLMResponseMeta{}, errs.NewValidationError("candidates", "must not be empty")
	}

	prompt := a.Prompts.AdvocatePrompt(candidates, topic, ctxText)
	var out models.AdvocacyResponse
	meta, err := a.call(ctx, prompt, schema.NameAdvocacyResponse, temperature, &out)
	if err != nil {
		return models.AdvocacyResponse{}, models.LLMResponseMeta{}, err
	}
	return out, meta, nil
}
