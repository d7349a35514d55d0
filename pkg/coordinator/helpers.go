package coordinator

import (
	"fmt"

	"github.com/madspark-dev/madspark/pkg/batch"
	"github.com/madspark-dev/madspark/pkg/models"
)

// attachEvaluations seeds one Candidate per idea with the Critic's
// initial score and comment.
func attachEvaluations(ideas []models.Idea, evaluations models.CriticEvaluations) []models.Candidate {
	candidates := make([]models.Candidate, len(ideas))
	for i, idea := range ideas {
		candidates[i] = models.Candidate{OriginalIdea: idea}
	}
	batch.UpdateCandidatesWithResults(candidates, evaluations.Evaluations,
		func() models.Evaluation { return models.Evaluation{Comment: "evaluation unavailable"} },
		func(c *models.Candidate, e models.Evaluation) {
			c.InitialScore = e.Score
			c.InitialCritique = e.Comment
		})
	return candidates
}

// candidateIdeas projects the original idea back out of each candidate,
// for stages (MultiDim, Inference) that operate on the original ideas.
func candidateIdeas(candidates []models.Candidate) []models.Idea {
	ideas := make([]models.Idea, len(candidates))
	for i, c := range candidates {
		ideas[i] = c.OriginalIdea
	}
	return ideas
}

// candidateImprovedIdeas builds the re-evaluation input: the improved
// text standing in for the idea description, keyed by the original
// idea's index so downstream batch-merge alignment still holds.
func candidateImprovedIdeas(candidates []models.Candidate) []models.Idea {
	ideas := make([]models.Idea, len(candidates))
	for i, c := range candidates {
		ideas[i] = models.Idea{
			Index:       c.OriginalIdea.Index,
			Title:       fmt.Sprintf("Improved: %s", c.OriginalIdea.Title),
			Description: c.ImprovedIdea,
		}
	}
	return ideas
}

func attachInitialMultiDim(candidates []models.Candidate, dims []models.MultiDimEvaluation) {
	batch.UpdateCandidatesWithResults(candidates, dims,
		func() models.MultiDimEvaluation { return models.MultiDimEvaluation{} },
		func(c *models.Candidate, d models.MultiDimEvaluation) { c.InitialMultiDimEvaluation = &d })
}

func attachImprovedMultiDim(candidates []models.Candidate, dims []models.MultiDimEvaluation) {
	batch.UpdateCandidatesWithResults(candidates, dims,
		func() models.MultiDimEvaluation { return models.MultiDimEvaluation{} },
		func(c *models.Candidate, d models.MultiDimEvaluation) { c.ImprovedMultiDimEvaluation = &d })
}

func attachAdvocacy(candidates []models.Candidate, resp models.AdvocacyResponse) {
	batch.UpdateCandidatesWithResults(candidates, resp.Advocacies,
		func() models.Advocacy { return models.Advocacy{} },
		func(c *models.Candidate, a models.Advocacy) { c.Advocacy = &a })
}

func attachSkepticism(candidates []models.Candidate, resp models.SkepticismResponse) {
	batch.UpdateCandidatesWithResults(candidates, resp.Skepticisms,
		func() models.Skepticism { return models.Skepticism{} },
		func(c *models.Candidate, s models.Skepticism) { c.Skepticism = &s })
}

func attachInference(candidates []models.Candidate, infs []models.LogicalInference) {
	batch.UpdateCandidatesWithResults(candidates, infs,
		func() models.LogicalInference { return models.LogicalInference{} },
		func(c *models.Candidate, inf models.LogicalInference) { c.LogicalInference = &inf })
}

func attachImprovements(candidates []models.Candidate, resp models.ImprovementResponse) {
	batch.UpdateCandidatesWithResults(candidates, resp.Improvements,
		func() models.ImprovementResult { return models.ImprovementResult{ImprovedIdea: "improvement unavailable"} },
		func(c *models.Candidate, r models.ImprovementResult) { c.ImprovedIdea = r.ImprovedIdea })
}

func attachReEvaluations(candidates []models.Candidate, evaluations models.CriticEvaluations) {
	batch.UpdateCandidatesWithResults(candidates, evaluations.Evaluations,
		func() models.Evaluation { return models.Evaluation{Comment: "re-evaluation unavailable"} },
		func(c *models.Candidate, e models.Evaluation) {
			c.ImprovedScore = e.Score
			c.ImprovedCritique = e.Comment
		})
}

// stageFailedPlaceholder marks a field whose stage failed after
// exhausting retries and fallback, substituted in place of the missing
// LLM output so the workflow can still complete.
const stageFailedPlaceholder = "N/A (stage failed)"

// placeholderAdvocacies builds a degraded AdvocacyResponse for every
// candidate, used when the Advocate stage fails after retries/fallback.
func placeholderAdvocacies(candidates []models.Candidate) models.AdvocacyResponse {
	advocacies := make([]models.Advocacy, len(candidates))
	for i, c := range candidates {
		advocacies[i] = models.Advocacy{
			IdeaIndex:          c.OriginalIdea.Index,
			Strengths:          []models.TitledItem{{Title: stageFailedPlaceholder, Description: stageFailedPlaceholder}},
			Opportunities:      []models.TitledItem{{Title: stageFailedPlaceholder, Description: stageFailedPlaceholder}},
			AddressingConcerns: []models.ConcernResponse{{Concern: stageFailedPlaceholder, Response: stageFailedPlaceholder}},
		}
	}
	return models.AdvocacyResponse{Advocacies: advocacies}
}

// placeholderSkepticisms builds a degraded SkepticismResponse for every
// candidate, used when the Skeptic stage fails after retries/fallback.
func placeholderSkepticisms(candidates []models.Candidate) models.SkepticismResponse {
	skepticisms := make([]models.Skepticism, len(candidates))
	for i, c := range candidates {
		skepticisms[i] = models.Skepticism{
			IdeaIndex:               c.OriginalIdea.Index,
			CriticalFlaws:           []models.TitledItem{{Title: stageFailedPlaceholder, Description: stageFailedPlaceholder}},
			RisksChallenges:         []models.TitledItem{{Title: stageFailedPlaceholder, Description: stageFailedPlaceholder}},
			QuestionableAssumptions: []models.AssumptionConcern{{Assumption: stageFailedPlaceholder, Concern: stageFailedPlaceholder}},
			MissingConsiderations:   []models.AspectImportance{{Aspect: stageFailedPlaceholder, Importance: stageFailedPlaceholder}},
		}
	}
	return models.SkepticismResponse{Skepticisms: skepticisms}
}

// placeholderMultiDim builds a degraded per-candidate MultiDimEvaluation
// list, used when the Multi-Dim Eval stage fails after retries/fallback.
func placeholderMultiDim(candidates []models.Candidate) []models.MultiDimEvaluation {
	out := make([]models.MultiDimEvaluation, len(candidates))
	for i, c := range candidates {
		out[i] = models.MultiDimEvaluation{IdeaIndex: c.OriginalIdea.Index, Summary: stageFailedPlaceholder}
	}
	return out
}

// placeholderInferences builds a degraded per-candidate LogicalInference
// list, used when the Logical Inference stage fails after
// retries/fallback.
func placeholderInferences(candidates []models.Candidate) []models.LogicalInference {
	out := make([]models.LogicalInference, len(candidates))
	for i, c := range candidates {
		out[i] = models.LogicalInference{
			IdeaIndex:      c.OriginalIdea.Index,
			InferenceChain: []string{stageFailedPlaceholder},
			Conclusion:     stageFailedPlaceholder,
		}
	}
	return out
}

// placeholderImprovements builds a degraded ImprovementResponse for
// every candidate, substituting the original idea text for the missing
// improvement, used when the Improver stage fails after
// retries/fallback.
func placeholderImprovements(candidates []models.Candidate) models.ImprovementResponse {
	improvements := make([]models.ImprovementResult, len(candidates))
	for i, c := range candidates {
		improvements[i] = models.ImprovementResult{IdeaIndex: c.OriginalIdea.Index, ImprovedIdea: c.OriginalIdea.Description}
	}
	return models.ImprovementResponse{Improvements: improvements}
}

