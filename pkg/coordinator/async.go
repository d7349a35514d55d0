package coordinator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
)

// RunAsync executes the pipeline with Advocate, Skeptic, multi-dimensional
// evaluation, and logical inference run concurrently once the top-K
// candidates are selected, under a single deadline that cancels every
// in-flight stage when it expires. Concurrency across those independent
// stages is capped at MaxConcurrentAgents. A stage that fails after
// exhausting its retries and provider fallback degrades to a placeholder
// result and lets its siblings finish, rather than cancelling the group.
func (c *Coordinator) RunAsync(ctx context.Context, params Params) (models.WorkflowResult, error) {
	params, err := normalize(params)
	if err != nil {
		return models.WorkflowResult{}, err
	}

	deadline, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()
	deadline = markAsync(deadline)

	meta := models.NewWorkflowMetadata()

	maxAgents := c.MaxConcurrentAgents
	if maxAgents <= 0 {
		maxAgents = DefaultMaxConcurrentAgents
	}
	sem := semaphore.NewWeighted(int64(maxAgents))

	ideaTemp := c.Temperatures.For(config.StageIdea)
	evalTemp := c.Temperatures.For(config.StageEvaluation)
	advocacyTemp := c.Temperatures.For(config.StageAdvocacy)
	skepticTemp := c.Temperatures.For(config.StageSkepticism)

	params.report(params.ProgressCallback, "generating ideas", 0.05)
	ideaRes, err := runBatchStage(deadline, c.Pool, "idea_generation", func(ctx context.Context) (stageResult[models.GeneratedIdeas], error) {
		ideas, ideaMeta, err := c.IdeaGenerator.Generate(ctx, params.Topic, params.Context, ideaTemp)
		return stageResult[models.GeneratedIdeas]{ideas, ideaMeta}, err
	})
	if deadline.Err() != nil {
		return models.WorkflowResult{}, errs.NewTimeoutError("idea_generation", 0)
	}
	if err != nil {
		slog.Error("idea generation failed after retries, returning empty candidate list", "error", err)
		meta.FinishedAt = time.Now()
		return models.WorkflowResult{Candidates: nil, Metadata: meta}, nil
	}
	ideas := ideaRes.record
	meta.Accumulate(ideaRes.meta)

	params.report(params.ProgressCallback, "critiquing ideas", 0.2)
	evalRes, err := runBatchStage(deadline, c.Pool, "critic", func(ctx context.Context) (stageResult[models.CriticEvaluations], error) {
		evaluations, evalMeta, err := c.Critic.Evaluate(ctx, ideas.Ideas, params.Topic, params.Context, evalTemp)
		return stageResult[models.CriticEvaluations]{evaluations, evalMeta}, err
	})
	if deadline.Err() != nil {
		return models.WorkflowResult{}, errs.NewTimeoutError("critic", 0)
	}
	if err != nil {
		slog.Error("critic stage failed after retries, returning empty candidate list", "error", err)
		meta.FinishedAt = time.Now()
		return models.WorkflowResult{Candidates: nil, Metadata: meta}, nil
	}
	meta.Accumulate(evalRes.meta)

	candidates := attachEvaluations(ideas.Ideas, evalRes.record)
	candidates = topKByScore(candidates, params.NumTopCandidates)
	ideasSubset := candidateIdeas(candidates)

	g, gctx := errgroup.WithContext(deadline)

	var advocacies models.AdvocacyResponse
	var skepticisms models.SkepticismResponse
	var initialDims []models.MultiDimEvaluation
	var inferences []models.LogicalInference
	var advMeta, skepMeta models.LLMResponseMeta
	var advDegraded, skepDegraded, dimsDegraded, infDegraded bool

	g.Go(func() error {
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer sem.Release(1)
		params.report(params.ProgressCallback, "advocating for candidates", 0.35)
		res, err := runBatchStage(gctx, c.Pool, "advocate", func(ctx context.Context) (stageResult[models.AdvocacyResponse], error) {
			resp, m, err := c.Advocate.Argue(ctx, candidates, params.Topic, params.Context, advocacyTemp)
			return stageResult[models.AdvocacyResponse]{resp, m}, err
		})
		if err != nil && gctx.Err() == nil && isAllProvidersFailed(err) {
			slog.Warn("advocate stage failed after retries and fallback, using placeholder")
			advDegraded = true
			return nil
		}
		if err != nil {
			return err
		}
		advocacies = res.record
		advMeta = res.meta
		return nil
	})

	g.Go(func() error {
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer sem.Release(1)
		params.report(params.ProgressCallback, "raising skepticism", 0.45)
		res, err := runBatchStage(gctx, c.Pool, "skeptic", func(ctx context.Context) (stageResult[models.SkepticismResponse], error) {
			resp, m, err := c.Skeptic.Challenge(ctx, candidates, params.Topic, params.Context, skepticTemp)
			return stageResult[models.SkepticismResponse]{resp, m}, err
		})
		if err != nil && gctx.Err() == nil && isAllProvidersFailed(err) {
			slog.Warn("skeptic stage failed after retries and fallback, using placeholder")
			skepDegraded = true
			return nil
		}
		if err != nil {
			return err
		}
		skepticisms = res.record
		skepMeta = res.meta
		return nil
	})

	if params.MultiDimensionalEval {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			params.report(params.ProgressCallback, "multi-dimensional evaluation", 0.3)
			dims, err := runBatchStage(gctx, c.Pool, "multi_dim_eval", func(ctx context.Context) ([]models.MultiDimEvaluation, error) {
				return c.MultiDim.EvaluateBatch(ctx, ideasSubset, params.Context, evalTemp)
			})
			if err != nil && gctx.Err() == nil && isAllProvidersFailed(err) {
				slog.Warn("multi-dimensional evaluation failed after retries and fallback, using placeholder")
				dimsDegraded = true
				return nil
			}
			if err != nil {
				return err
			}
			initialDims = dims
			return nil
		})
	}

	if params.EnableLogicalInference {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			params.report(params.ProgressCallback, "running logical inference", 0.3)
			infs, err := runBatchStage(gctx, c.Pool, "logical_inference", func(ctx context.Context) ([]models.LogicalInference, error) {
				return c.Inference.AnalyzeBatch(ctx, ideasSubset, params.Context, models.InferenceFull, ideaTemp)
			})
			if err != nil && gctx.Err() == nil && isAllProvidersFailed(err) {
				slog.Warn("logical inference failed after retries and fallback, using placeholder")
				infDegraded = true
				return nil
			}
			if err != nil {
				return err
			}
			inferences = infs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if deadline.Err() != nil {
			return models.WorkflowResult{}, errs.NewTimeoutError("parallel_stage", params.Timeout.Seconds())
		}
		return models.WorkflowResult{}, err
	}

	if advDegraded {
		advocacies = placeholderAdvocacies(candidates)
	} else {
		meta.Accumulate(advMeta)
	}
	attachAdvocacy(candidates, advocacies)

	if skepDegraded {
		skepticisms = placeholderSkepticisms(candidates)
	} else {
		meta.Accumulate(skepMeta)
	}
	attachSkepticism(candidates, skepticisms)

	if params.MultiDimensionalEval {
		if dimsDegraded {
			initialDims = placeholderMultiDim(candidates)
		}
		attachInitialMultiDim(candidates, initialDims)
	}
	if params.EnableLogicalInference {
		if infDegraded {
			inferences = placeholderInferences(candidates)
		}
		attachInference(candidates, inferences)
	}

	params.report(params.ProgressCallback, "improving candidates", 0.7)
	impRes, err := runBatchStage(deadline, c.Pool, "improver", func(ctx context.Context) (stageResult[models.ImprovementResponse], error) {
		improvements, impMeta, err := c.Improver.Improve(ctx, candidates, params.Topic, params.Context, ideaTemp)
		return stageResult[models.ImprovementResponse]{improvements, impMeta}, err
	})
	degrade, stageErr := handleResilientStage(deadline, "improver", err)
	if stageErr != nil {
		return models.WorkflowResult{}, stageErr
	}
	improvements := impRes.record
	if degrade {
		slog.Warn("improver stage failed after retries and fallback, using original idea text")
		improvements = placeholderImprovements(candidates)
	} else {
		meta.Accumulate(impRes.meta)
	}
	attachImprovements(candidates, improvements)

	params.report(params.ProgressCallback, "re-evaluating improved ideas", 0.85)
	improvedIdeas := candidateImprovedIdeas(candidates)
	reEvalRes, err := runBatchStage(deadline, c.Pool, "re_critic", func(ctx context.Context) (stageResult[models.CriticEvaluations], error) {
		reEvaluations, reEvalMeta, err := c.Critic.Evaluate(ctx, improvedIdeas, params.Topic, params.Context, evalTemp)
		return stageResult[models.CriticEvaluations]{reEvaluations, reEvalMeta}, err
	})
	if err := checkStage(deadline, "re_critic", err); err != nil {
		return models.WorkflowResult{}, err
	}
	meta.Accumulate(reEvalRes.meta)
	attachReEvaluations(candidates, reEvalRes.record)

	if params.MultiDimensionalEval {
		params.report(params.ProgressCallback, "re-running multi-dimensional evaluation", 0.92)
		improvedDims, err := runBatchStage(deadline, c.Pool, "re_multi_dim_eval", func(ctx context.Context) ([]models.MultiDimEvaluation, error) {
			return c.MultiDim.EvaluateBatch(ctx, improvedIdeas, params.Context, evalTemp)
		})
		degrade, stageErr := handleResilientStage(deadline, "re_multi_dim_eval", err)
		if stageErr != nil {
			return models.WorkflowResult{}, stageErr
		}
		if degrade {
			slog.Warn("re-run multi-dimensional evaluation failed after retries and fallback, using placeholder")
			improvedDims = placeholderMultiDim(candidates)
		}
		attachImprovedMultiDim(candidates, improvedDims)
	}

	for i := range candidates {
		finalizeImprovement(&candidates[i])
	}
	sortFinal(candidates)

	meta.FinishedAt = time.Now()
	params.report(params.ProgressCallback, "workflow complete", 1.0)

	return models.WorkflowResult{Candidates: candidates, Metadata: meta}, nil
}
