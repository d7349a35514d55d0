// Package coordinator implements the Sync (C9) and Async (C10)
// pipeline coordinators: Idea Generator → Critic → top-K selection →
// {Advocate, Skeptic, MultiDim Eval, Logical Inference} → Improver →
// re-evaluation.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/madspark-dev/madspark/pkg/agents"
	"github.com/madspark-dev/madspark/pkg/batch"
	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
	"github.com/madspark-dev/madspark/pkg/reasoning"
	"github.com/madspark-dev/madspark/pkg/workerpool"
)

// DefaultNumTopCandidates is the default number of top-scoring
// candidates advanced past the Critic stage.
const DefaultNumTopCandidates = 2

// DefaultWorkflowTimeout and bounds define a workflow run's deadline.
const (
	DefaultWorkflowTimeout = 1200 * time.Second
	MinWorkflowTimeout     = 60 * time.Second
	MaxWorkflowTimeout     = 3600 * time.Second
	DefaultMaxConcurrentAgents = 10
)

// MeaningfulImprovementSimilarityCeiling and ScoreDeltaFloor implement
// the isMeaningfulImprovement rule: an improved idea only counts as
// meaningfully different if it diverges enough textually and scores
// enough higher than the original.
const (
	MeaningfulImprovementSimilarityCeiling = 0.75
	MeaningfulImprovementScoreDeltaFloor   = 0.5
)

// ProgressCallback receives a human-readable message and the fraction
// of the workflow completed so far, invoked at stage boundaries.
type ProgressCallback func(message string, fractionComplete float64)

// Params is one workflow run's input.
type Params struct {
	Topic   string
	Context string

	NumTopCandidates int

	EnableReasoning        bool
	MultiDimensionalEval   bool
	EnableLogicalInference bool
	EnableNoveltyFilter    bool // accepted but not read; no novelty filtering happens in this package

	MultimodalFiles []string
	MultimodalURLs  []string

	Timeout time.Duration

	ProgressCallback ProgressCallback
}

// Coordinator bundles the five agents, the reasoning engine, and the
// shared worker pool behind both the sync and async entry points.
type Coordinator struct {
	IdeaGenerator *agents.IdeaGenerator
	Critic        *agents.Critic
	Advocate      *agents.Advocate
	Skeptic       *agents.Skeptic
	Improver      *agents.Improver

	MultiDim  *reasoning.MultiDimEvaluator
	Inference *reasoning.LogicalInferenceEngine

	Temperatures *config.TemperatureManager
	Pool         *workerpool.Pool

	MaxConcurrentAgents int
}

// normalize fills in Params defaults and validates required fields:
// topic non-empty; context may be empty; numTopCandidates ≥ 1.
func normalize(p Params) (Params, error) {
	if strings.TrimSpace(p.Topic) == "" {
		return p, errs.NewValidationError("topic", "must not be empty")
	}
	if p.NumTopCandidates <= 0 {
		p.NumTopCandidates = DefaultNumTopCandidates
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultWorkflowTimeout
	}
	if p.Timeout < MinWorkflowTimeout {
		p.Timeout = MinWorkflowTimeout
	}
	if p.Timeout > MaxWorkflowTimeout {
		p.Timeout = MaxWorkflowTimeout
	}
	if len(p.MultimodalFiles) > 20 {
		return p, errs.NewValidationError("multimodalFiles", "at most 20 files allowed")
	}
	if len(p.MultimodalURLs) > 10 {
		return p, errs.NewValidationError("multimodalURLs", "at most 10 URLs allowed")
	}
	return p, nil
}

func (p Params) report(cb ProgressCallback, message string, fraction float64) {
	if cb != nil {
		cb(message, fraction)
	}
}

// topKByScore sorts candidates descending by InitialScore and keeps the
// first k.
func topKByScore(candidates []models.Candidate, k int) []models.Candidate {
	sorted := append([]models.Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].InitialScore > sorted[j].InitialScore
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// sortFinal orders candidates by final ranking: ImprovedScore desc,
// then InitialScore desc, then original idea index asc. Applied once,
// immediately before a workflow run returns its result.
func sortFinal(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ImprovedScore != candidates[j].ImprovedScore {
			return candidates[i].ImprovedScore > candidates[j].ImprovedScore
		}
		if candidates[i].InitialScore != candidates[j].InitialScore {
			return candidates[i].InitialScore > candidates[j].InitialScore
		}
		return candidates[i].OriginalIdea.Index < candidates[j].OriginalIdea.Index
	})
}

// runBatchStage runs fn as a single-item job on pool, enforcing
// batch.DefaultBatchTimeout alongside whatever deadline ctx already
// carries. A nil pool (as in tests that construct a Coordinator
// without one) falls back to running fn directly under the same
// timeout instead of dispatching through the pool.
func runBatchStage[R any](ctx context.Context, pool *workerpool.Pool, stage string, fn func(ctx context.Context) (R, error)) (R, error) {
	mode := batch.ModeAsync
	if pool == nil {
		mode = batch.ModeSync
	}
	results, err := batch.RunBatchWithTimeout(ctx, pool, stage, mode, batch.DefaultBatchTimeout,
		[]struct{}{{}},
		func(ctx context.Context, _ struct{}) (R, error) {
			return fn(ctx)
		})
	var zero R
	if err != nil {
		return zero, err
	}
	return results[0], nil
}

// isAllProvidersFailed reports whether err is (or wraps)
// errs.ErrAllProvidersFailed: every configured provider exhausted its
// retries and fallback for one stage call.
func isAllProvidersFailed(err error) bool {
	return err != nil && errors.Is(err, errs.ErrAllProvidersFailed)
}

// handleResilientStage classifies one of the five stages that degrade
// instead of failing the whole workflow (Advocate, Skeptic, Improver,
// Multi-Dim Eval, Logical Inference). A context deadline always fails
// the run; an AllProvidersFailedError after retries and fallback
// degrades to a placeholder result (degrade=true, err=nil); any other
// error remains fatal.
func handleResilientStage(ctx context.Context, stage string, err error) (degrade bool, fatalErr error) {
	if ctx.Err() != nil {
		return false, errs.NewTimeoutError(stage, 0)
	}
	if err == nil {
		return false, nil
	}
	if isAllProvidersFailed(err) {
		return true, nil
	}
	return false, fmt.Errorf("stage %s failed: %w", stage, err)
}

// jaccardSimilarity computes word-set overlap between two texts,
// normalized (lowercased, whitespace-split).
func jaccardSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// finalizeImprovement computes scoreDelta, similarityScore, and
// isMeaningfulImprovement for one candidate after re-evaluation.
func finalizeImprovement(c *models.Candidate) {
	c.ScoreDelta = c.ImprovedScore - c.InitialScore
	c.SimilarityScore = jaccardSimilarity(c.OriginalIdea.Description, c.ImprovedIdea)
	c.IsMeaningfulImprovement = c.SimilarityScore <= MeaningfulImprovementSimilarityCeiling &&
		c.ScoreDelta >= MeaningfulImprovementScoreDeltaFloor
}

// asyncContextKey marks a context as already running inside the async
// coordinator's event loop, letting RunSync refuse re-entrant use
// instead of attempting to block a goroutine that is itself a
// suspension point for an in-flight async run.
type asyncContextKey struct{}

func markAsync(ctx context.Context) context.Context {
	return context.WithValue(ctx, asyncContextKey{}, true)
}

func isAsyncContext(ctx context.Context) bool {
	v, _ := ctx.Value(asyncContextKey{}).(bool)
	return v
}
