package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
	"github.com/madspark-dev/madspark/pkg/models"
)

// stageResult pairs a stage's decoded record with its LLM response
// metadata, so runBatchStage (which returns a single value) can carry
// both through the worker pool.
type stageResult[T any] struct {
	record T
	meta   models.LLMResponseMeta
}

// RunSync executes the pipeline stages sequentially, suitable for small
// workloads and simple environments. The workflow deadline derived from
// params.Timeout is passed into every stage call, so a stage still in
// flight when it expires is cancelled, and it is checked again after
// each stage returns.
func (c *Coordinator) RunSync(ctx context.Context, params Params) (models.WorkflowResult, error) {
	if isAsyncContext(ctx) {
		return models.WorkflowResult{}, errs.NewConfigurationError(
			"RunSync called from within an async coordinator run; use RunAsync instead")
	}

	params, err := normalize(params)
	if err != nil {
		return models.WorkflowResult{}, err
	}

	deadline, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	meta := models.NewWorkflowMetadata()

	ideaTemp := c.Temperatures.For(config.StageIdea)
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
	evalTemp := c.Temperatures.For(config.StageEvaluation)
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

	if params.MultiDimensionalEval {
		params.report(params.ProgressCallback, "multi-dimensional evaluation", 0.3)
		ideasSubset := candidateIdeas(candidates)
		dims, err := runBatchStage(deadline, c.Pool, "multi_dim_eval", func(ctx context.Context) ([]models.MultiDimEvaluation, error) {
			return c.MultiDim.EvaluateBatch(ctx, ideasSubset, params.Context, evalTemp)
		})
		degrade, stageErr := handleResilientStage(deadline, "multi_dim_eval", err)
		if stageErr != nil {
			return models.WorkflowResult{}, stageErr
		}
		if degrade {
			slog.Warn("multi-dimensional evaluation failed after retries and fallback, using placeholder")
			dims = placeholderMultiDim(candidates)
		}
		attachInitialMultiDim(candidates, dims)
	}

	advocacyTemp := c.Temperatures.For(config.StageAdvocacy)
	params.report(params.ProgressCallback, "advocating for candidates", 0.4)
	advRes, err := runBatchStage(deadline, c.Pool, "advocate", func(ctx context.Context) (stageResult[models.AdvocacyResponse], error) {
		advocacies, advMeta, err := c.Advocate.Argue(ctx, candidates, params.Topic, params.Context, advocacyTemp)
		return stageResult[models.AdvocacyResponse]{advocacies, advMeta}, err
	})
	degrade, stageErr := handleResilientStage(deadline, "advocate", err)
	if stageErr != nil {
		return models.WorkflowResult{}, stageErr
	}
	advocacies := advRes.record
	if degrade {
		slog.Warn("advocate stage failed after retries and fallback, using placeholder")
		advocacies = placeholderAdvocacies(candidates)
	} else {
		meta.Accumulate(advRes.meta)
	}
	attachAdvocacy(candidates, advocacies)

	skepticTemp := c.Temperatures.For(config.StageSkepticism)
	params.report(params.ProgressCallback, "raising skepticism", 0.5)
	skepRes, err := runBatchStage(deadline, c.Pool, "skeptic", func(ctx context.Context) (stageResult[models.SkepticismResponse], error) {
		skepticisms, skepMeta, err := c.Skeptic.Challenge(ctx, candidates, params.Topic, params.Context, skepticTemp)
		return stageResult[models.SkepticismResponse]{skepticisms, skepMeta}, err
	})
	degrade, stageErr = handleResilientStage(deadline, "skeptic", err)
	if stageErr != nil {
		return models.WorkflowResult{}, stageErr
	}
	skepticisms := skepRes.record
	if degrade {
		slog.Warn("skeptic stage failed after retries and fallback, using placeholder")
		skepticisms = placeholderSkepticisms(candidates)
	} else {
		meta.Accumulate(skepRes.meta)
	}
	attachSkepticism(candidates, skepticisms)

	if params.EnableLogicalInference {
		params.report(params.ProgressCallback, "running logical inference", 0.6)
		ideasSubset := candidateIdeas(candidates)
		inferences, err := runBatchStage(deadline, c.Pool, "logical_inference", func(ctx context.Context) ([]models.LogicalInference, error) {
			return c.Inference.AnalyzeBatch(ctx, ideasSubset, params.Context, models.InferenceFull, ideaTemp)
		})
		degrade, stageErr := handleResilientStage(deadline, "logical_inference", err)
		if stageErr != nil {
			return models.WorkflowResult{}, stageErr
		}
		if degrade {
			slog.Warn("logical inference failed after retries and fallback, using placeholder")
			inferences = placeholderInferences(candidates)
		}
		attachInference(candidates, inferences)
	}

	params.report(params.ProgressCallback, "improving candidates", 0.7)
	impRes, err := runBatchStage(deadline, c.Pool, "improver", func(ctx context.Context) (stageResult[models.ImprovementResponse], error) {
		improvements, impMeta, err := c.Improver.Improve(ctx, candidates, params.Topic, params.Context, ideaTemp)
		return stageResult[models.ImprovementResponse]{improvements, impMeta}, err
	})
	degrade, stageErr = handleResilientStage(deadline, "improver", err)
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

// checkStage translates a stage error, or a deadline already exceeded
// after the stage returned, into the appropriate typed error. A stage
// error that coincides with an expired deadline is reported as a
// Timeout rather than whatever transport error the cancelled context
// produced at the provider boundary, so callers can reliably branch on
// errs.ErrTimeout regardless of how deep the cancellation was observed.
func checkStage(ctx context.Context, stage string, err error) error {
	if ctx.Err() != nil {
		return errs.NewTimeoutError(stage, 0)
	}
	if err != nil {
		return fmt.Errorf("stage %s failed: %w", stage, err)
	}
	return nil
}
