package agents

import (
	"context"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// IdeaGenerator produces the initial set of ideas for a topic.
type IdeaGenerator struct{ base }

// NewIdeaGenerator builds an IdeaGenerator.
func NewIdeaGenerator(r *router.Router, s *schema.Registry, p PromptLibrary, retryCfg config.RetryConfig) *IdeaGenerator {
	return &IdeaGenerator{base{Router: r, Schemas: s, Prompts: p, Retry: retryCfg}}
}

// Generate produces 1..20 ideas for topic/context.
func (g *IdeaGenerator) Generate(ctx context.Context, topic, context string, temperature float64) (models.GeneratedIdeas, models.LLMResponseMeta, error) {
	if topic == "" {
		return models.GeneratedIdeas{}, models.LLMResponseMeta{}, errs.NewValidationError("topic", "must not be empty")
	}

	prompt := g.Prompts.IdeaGeneratorPrompt(topic, context)
	var out models.GeneratedIdeas
	meta, err := g.call(ctx, prompt, schema.NameGeneratedIdeas, temperature, &out)
	if err != nil {
		return models.GeneratedIdeas{}, models.LLMResponseMeta{}, err
	}
	return out, meta, nil
}
