package agents_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madspark-dev/madspark/pkg/agents"
	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/llmprovider"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/promptlib"
	"github.com/madspark-dev/madspark/pkg/router"
	"github.com/madspark-dev/madspark/pkg/schema"
)

// fakeProvider answers every call with a scripted sequence of JSON
// bodies (or transport errors), letting tests drive the schema-retry
// and transport-retry paths inside pkg/agents' base.call.
type fakeProvider struct {
	responses []string // "" entries simulate a transport error
	calls     int
}

func (f *fakeProvider) GenerateStructured(ctx context.Context, req llmprovider.Request) (llmprovider.Response, error) {
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	if f.responses[i] == "" {
		return llmprovider.Response{}, fmt.Errorf("simulated transport failure")
	}
	return llmprovider.Response{JSON: f.responses[i], ProviderName: "fake", ModelName: "fake-model", PromptTokens: 3, CompletionTokens: 2}, nil
}
func (f *fakeProvider) HealthCheck(ctx context.Context) error   { return nil }
func (f *fakeProvider) ProviderName() string                   { return "fake" }
func (f *fakeProvider) ModelName() string                      { return "fake-model" }
func (f *fakeProvider) SupportsMultimodal() bool                { return false }
func (f *fakeProvider) CostPerToken() (float64, float64)       { return 0, 0 }

func newRouter(p llmprovider.Provider) *router.Router {
	return router.New(router.Options{Local: p})
}

func fastRetry() config.RetryConfig {
	return config.RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond}
}

func TestIdeaGenerator_Generate_RejectsEmptyTopic(t *testing.T) {
	g := agents.NewIdeaGenerator(newRouter(&fakeProvider{}), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := g.Generate(context.Background(), "", "", 0.7)
	require.Error(t, err)
	var valErr *errs.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestIdeaGenerator_Generate_HappyPath(t *testing.T) {
	p := &fakeProvider{responses: []string{`{"ideas":[{"index":0,"title":"T","description":"A sufficiently descriptive idea body."}]}`}}
	g := agents.NewIdeaGenerator(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	out, meta, err := g.Generate(context.Background(), "urban farming", "apartments", 0.7)
	require.NoError(t, err)
	require.Len(t, out.Ideas, 1)
	assert.Equal(t, "T", out.Ideas[0].Title)
	assert.Equal(t, "fake", meta.Provider)
	assert.Equal(t, 5, meta.TokensUsed)
}

func TestIdeaGenerator_Generate_RetriesInPlaceOnInvalidJSONThenSucceeds(t *testing.T) {
	p := &fakeProvider{responses: []string{
		`not json`,
		`{"ideas":[{"index":0,"title":"T","description":"A sufficiently descriptive idea body."}]}`,
	}}
	g := agents.NewIdeaGenerator(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	out, _, err := g.Generate(context.Background(), "urban farming", "", 0.7)
	require.NoError(t, err)
	require.Len(t, out.Ideas, 1)
	assert.Equal(t, 2, p.calls, "first malformed reply should be re-prompted in place")
}

func TestIdeaGenerator_Generate_GivesUpAfterMaxSchemaRetries(t *testing.T) {
	p := &fakeProvider{responses: []string{`not json`, `still not json`, `nope`, `nope`, `nope`}}
	g := agents.NewIdeaGenerator(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := g.Generate(context.Background(), "urban farming", "", 0.7)
	require.Error(t, err)
	var schemaErr *errs.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestIdeaGenerator_Generate_RejectsEmptyDescription(t *testing.T) {
	// An idea whose required description is empty must fail schema
	// validation rather than being accepted as-is.
	p := &fakeProvider{responses: []string{`{"ideas":[{"index":0,"title":"T","description":""}]}`}}
	g := agents.NewIdeaGenerator(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := g.Generate(context.Background(), "urban farming", "", 0.7)
	require.Error(t, err)
	var schemaErr *errs.SchemaValidationError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestCritic_Evaluate_RejectsEmptyIdeas(t *testing.T) {
	c := agents.NewCritic(newRouter(&fakeProvider{}), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := c.Evaluate(context.Background(), nil, "topic", "", 0.5)
	require.Error(t, err)
	var valErr *errs.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestCritic_Evaluate_AllowsShortBatch(t *testing.T) {
	p := &fakeProvider{responses: []string{
		`{"evaluations":[{"idea_index":0,"score":8,"comment":"A strong contender overall."}]}`,
	}}
	c := agents.NewCritic(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	ideas := []models.Idea{
		{Index: 0, Title: "A", Description: "First idea description."},
		{Index: 1, Title: "B", Description: "Second idea description."},
	}
	out, _, err := c.Evaluate(context.Background(), ideas, "topic", "", 0.5)
	require.NoError(t, err, "a short Critic batch is the coordinator's concern, not the agent's")
	assert.Len(t, out.Evaluations, 1)
}

func TestAdvocate_Argue_RejectsEmptyCandidates(t *testing.T) {
	a := agents.NewAdvocate(newRouter(&fakeProvider{}), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := a.Argue(context.Background(), nil, "topic", "", 0.5)
	require.Error(t, err)
}

func TestSkeptic_Challenge_HappyPath(t *testing.T) {
	p := &fakeProvider{responses: []string{
		`{"skepticisms":[{"idea_index":0,"critical_flaws":[{"title":"Flaw","description":"A real flaw."}],` +
			`"risks_challenges":[{"title":"Risk","description":"A real risk."}],` +
			`"questionable_assumptions":[{"assumption":"A","concern":"C"}],` +
			`"missing_considerations":[{"aspect":"Asp","importance":"Imp"}]}]}`,
	}}
	sk := agents.NewSkeptic(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	candidates := []models.Candidate{{OriginalIdea: models.Idea{Index: 0, Title: "A", Description: "Desc"}}}
	out, _, err := sk.Challenge(context.Background(), candidates, "topic", "", 0.5)
	require.NoError(t, err)
	require.Len(t, out.Skepticisms, 1)
	assert.Equal(t, "Flaw", out.Skepticisms[0].CriticalFlaws[0].Title)
}

func TestImprover_Improve_RejectsEmptyCandidates(t *testing.T) {
	im := agents.NewImprover(newRouter(&fakeProvider{}), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	_, _, err := im.Improve(context.Background(), nil, "topic", "", 0.7)
	require.Error(t, err)
}

func TestImprover_Improve_HappyPath(t *testing.T) {
	p := &fakeProvider{responses: []string{
		`{"improvements":[{"idea_index":0,"improved_idea":"A refined version of the idea."}]}`,
	}}
	im := agents.NewImprover(newRouter(p), schema.NewRegistry(), promptlib.Default{}, fastRetry())

	candidates := []models.Candidate{{OriginalIdea: models.Idea{Index: 0, Title: "A", Description: "Desc"}}}
	out, _, err := im.Improve(context.Background(), candidates, "topic", "", 0.7)
	require.NoError(t, err)
	require.Len(t, out.Improvements, 1)
	assert.Equal(t, "A refined version of the idea.", out.Improvements[0].ImprovedIdea)
}
