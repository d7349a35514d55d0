// Package models defines the data entities shared across the
// orchestrator: request inputs, ideas, evaluations, multi-dimensional
// scores, advocacy/skepticism records, logical inference results,
// workflow candidates, and LLM response metadata.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestInputs is the tuple of inputs that seeds a workflow.
type RequestInputs struct {
	Topic           string   `json:"topic" validate:"required"`
	Context         string   `json:"context"`
	MultimodalFiles []string `json:"multimodal_files,omitempty" validate:"max=20"`
	MultimodalURLs  []string `json:"multimodal_urls,omitempty" validate:"max=10"`
}

// NewRequestInputs builds RequestInputs from topic/context. Callers holding
// the legacy theme/constraints aliases use FromThemeConstraints instead.
func NewRequestInputs(topic, context string, files, urls []string) RequestInputs {
	return RequestInputs{Topic: topic, Context: context, MultimodalFiles: files, MultimodalURLs: urls}
}

// FromThemeConstraints builds RequestInputs from the legacy theme/constraints
// aliases, normalizing them to topic/context.
func FromThemeConstraints(theme, constraints string, files, urls []string) RequestInputs {
	return NewRequestInputs(theme, constraints, files, urls)
}

// Idea is a single generated idea.
type Idea struct {
	Index       int      `json:"index" validate:"gte=0"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	KeyFeatures []string `json:"key_features,omitempty"`
	Category    string   `json:"category,omitempty"`
	// Tags lets an Idea Generator backend attach free-form categorical
	// labels to an idea beyond Category's single value.
	Tags []string `json:"tags,omitempty"`
}

// GeneratedIdeas is the Idea Generator's schema-validated output record.
type GeneratedIdeas struct {
	Ideas []Idea `json:"ideas" validate:"required,min=1,max=20,dive"`
}

// Evaluation is the Critic's per-idea scoring record.
type Evaluation struct {
	IdeaIndex int      `json:"idea_index" validate:"gte=0"`
	Score     float64  `json:"score" validate:"gte=0,lte=10"`
	Comment   string   `json:"comment" validate:"required,min=10"`
	Strengths []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// CriticEvaluations is the Critic batch output record.
type CriticEvaluations struct {
	Evaluations []Evaluation `json:"evaluations" validate:"dive"`
}

// Dimension names for multi-dimensional evaluation, in the fixed order
// DimensionWeights assigns weights to.
type Dimension string

const (
	DimensionFeasibility      Dimension = "feasibility"
	DimensionInnovation       Dimension = "innovation"
	DimensionImpact           Dimension = "impact"
	DimensionCostEffectiveness Dimension = "cost_effectiveness"
	DimensionScalability      Dimension = "scalability"
	DimensionRiskAssessment   Dimension = "risk_assessment"
	DimensionTimeline         Dimension = "timeline"
)

// AllDimensions lists the seven fixed scoring dimensions in canonical order.
var AllDimensions = []Dimension{
	DimensionFeasibility,
	DimensionInnovation,
	DimensionImpact,
	DimensionCostEffectiveness,
	DimensionScalability,
	DimensionRiskAssessment,
	DimensionTimeline,
}

// DimensionWeights holds the default per-dimension weight; the seven
// weights sum to 1.0.
var DimensionWeights = map[Dimension]float64{
	DimensionFeasibility:       0.20,
	DimensionInnovation:        0.15,
	DimensionImpact:            0.20,
	DimensionCostEffectiveness: 0.15,
	DimensionScalability:       0.10,
	DimensionRiskAssessment:    0.10,
	DimensionTimeline:          0.10,
}

// DimensionScore carries the seven per-dimension scores for one idea, as
// returned directly by the Reasoning Engine's batch schema.
type DimensionScore struct {
	IdeaIndex         int     `json:"idea_index" validate:"gte=0"`
	Feasibility       float64 `json:"feasibility" validate:"gte=0,lte=10"`
	Innovation        float64 `json:"innovation" validate:"gte=0,lte=10"`
	Impact            float64 `json:"impact" validate:"gte=0,lte=10"`
	CostEffectiveness float64 `json:"cost_effectiveness" validate:"gte=0,lte=10"`
	Scalability       float64 `json:"scalability" validate:"gte=0,lte=10"`
	RiskAssessment    float64 `json:"risk_assessment" validate:"gte=0,lte=10"`
	Timeline          float64 `json:"timeline" validate:"gte=0,lte=10"`
}

// AsMap returns the seven dimension scores keyed by Dimension.
func (d DimensionScore) AsMap() map[Dimension]float64 {
	return map[Dimension]float64{
		DimensionFeasibility:       d.Feasibility,
		DimensionInnovation:        d.Innovation,
		DimensionImpact:            d.Impact,
		DimensionCostEffectiveness: d.CostEffectiveness,
		DimensionScalability:       d.Scalability,
		DimensionRiskAssessment:    d.RiskAssessment,
		DimensionTimeline:          d.Timeline,
	}
}

// MultiDimBatch is the Reasoning Engine's batch output schema: one
// DimensionScore per idea, in input order.
type MultiDimBatch struct {
	Scores []DimensionScore `json:"scores" validate:"dive"`
}

// MultiDimEvaluation is the computed, derived evaluation for one idea.
type MultiDimEvaluation struct {
	IdeaIndex          int                 `json:"idea_index"`
	Dimensions         DimensionScore      `json:"dimensions"`
	OverallScore       float64             `json:"overall_score"`
	WeightedScore      float64             `json:"weighted_score"`
	ConfidenceInterval float64             `json:"confidence_interval"`
	Summary            string              `json:"summary"`
}

// TitledItem is a (title, description) pair used throughout Advocacy and
// Skepticism records.
type TitledItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ConcernResponse pairs a raised concern with the advocate's response.
type ConcernResponse struct {
	Concern  string `json:"concern" validate:"required"`
	Response string `json:"response" validate:"required"`
}

// Advocacy is the Advocate's per-idea output record.
type Advocacy struct {
	IdeaIndex          int               `json:"idea_index"`
	Strengths          []TitledItem      `json:"strengths" validate:"required,min=1,dive"`
	Opportunities      []TitledItem      `json:"opportunities" validate:"required,min=1,dive"`
	AddressingConcerns []ConcernResponse `json:"addressing_concerns" validate:"required,min=1,dive"`
}

// AdvocacyResponse is the Advocate batch output schema.
type AdvocacyResponse struct {
	Advocacies []Advocacy `json:"advocacies" validate:"dive"`
}

// AssumptionConcern pairs a questioned assumption with the skeptic's concern.
type AssumptionConcern struct {
	Assumption string `json:"assumption" validate:"required"`
	Concern    string `json:"concern" validate:"required"`
}

// AspectImportance pairs a missing consideration with why it matters.
type AspectImportance struct {
	Aspect     string `json:"aspect" validate:"required"`
	Importance string `json:"importance" validate:"required"`
}

// Skepticism is the Skeptic's per-idea output record.
type Skepticism struct {
	IdeaIndex               int                 `json:"idea_index"`
	CriticalFlaws           []TitledItem        `json:"critical_flaws" validate:"required,min=1,dive"`
	RisksChallenges         []TitledItem        `json:"risks_challenges" validate:"required,min=1,dive"`
	QuestionableAssumptions []AssumptionConcern `json:"questionable_assumptions" validate:"required,min=1,dive"`
	MissingConsiderations   []AspectImportance  `json:"missing_considerations" validate:"required,min=1,dive"`
}

// SkepticismResponse is the Skeptic batch output schema.
type SkepticismResponse struct {
	Skepticisms []Skepticism `json:"skepticisms" validate:"dive"`
}

// ImprovementResult is the Improver's per-idea output record.
type ImprovementResult struct {
	IdeaIndex          int      `json:"idea_index"`
	ImprovedIdea       string   `json:"improved_idea" validate:"required"`
	KeyImprovements    []string `json:"key_improvements,omitempty"`
	ImplementationSteps []string `json:"implementation_steps,omitempty"`
	Differentiators    []string `json:"differentiators,omitempty"`
}

// ImprovementResponse is the Improver batch output schema.
type ImprovementResponse struct {
	Improvements []ImprovementResult `json:"improvements" validate:"dive"`
}

// InferenceAnalysisType selects which of the five logical-inference
// analyses LogicalInferenceEngine performs.
type InferenceAnalysisType string

const (
	InferenceFull          InferenceAnalysisType = "full"
	InferenceCausal        InferenceAnalysisType = "causal"
	InferenceConstraint    InferenceAnalysisType = "constraint"
	InferenceContradiction InferenceAnalysisType = "contradiction"
	InferenceImplications  InferenceAnalysisType = "implications"
)

// LogicalInference is the typed result of a logical-inference analysis,
// with optional analysis-type-specific fields.
type LogicalInference struct {
	IdeaIndex       int                    `json:"idea_index"`
	AnalysisType    InferenceAnalysisType  `json:"analysis_type"`
	InferenceChain  []string               `json:"inference_chain" validate:"required,min=1"`
	Conclusion      string                 `json:"conclusion" validate:"required"`
	Confidence      float64                `json:"confidence" validate:"gte=0,lte=1"`
	Improvements    []string               `json:"improvements,omitempty"`

	CausalChain            []string `json:"causal_chain,omitempty"`
	ConstraintSatisfaction []string `json:"constraint_satisfaction,omitempty"`
	Contradictions         []string `json:"contradictions,omitempty"`
	Implications           []string `json:"implications,omitempty"`
}

// InferenceBatch is the Reasoning Engine's batch schema: one
// LogicalInference per idea, in input order.
type InferenceBatch struct {
	Results []LogicalInference `json:"results" validate:"dive"`
}

// LLMResponseMeta is returned alongside every validated record from a
// provider call.
type LLMResponseMeta struct {
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	TokensUsed    int       `json:"tokens_used" validate:"gte=0"`
	LatencyMillis int64     `json:"latency_millis" validate:"gte=0"`
	Cost          float64   `json:"cost" validate:"gte=0"`
	Cached        bool      `json:"cached"`
	Timestamp     time.Time `json:"timestamp"`
}

// Candidate accumulates one idea's journey through the pipeline.
type Candidate struct {
	OriginalIdea Idea `json:"original_idea"`

	InitialScore    float64 `json:"initial_score"`
	InitialCritique string  `json:"initial_critique"`

	Advocacy   *Advocacy   `json:"advocacy,omitempty"`
	Skepticism *Skepticism `json:"skepticism,omitempty"`

	InitialMultiDimEvaluation  *MultiDimEvaluation `json:"initial_multi_dim_evaluation,omitempty"`
	ImprovedMultiDimEvaluation *MultiDimEvaluation `json:"improved_multi_dim_evaluation,omitempty"`

	LogicalInference *LogicalInference `json:"logical_inference,omitempty"`

	ImprovedIdea     string  `json:"improved_idea"`
	ImprovedScore    float64 `json:"improved_score"`
	ImprovedCritique string  `json:"improved_critique"`

	ScoreDelta              float64 `json:"score_delta"`
	IsMeaningfulImprovement bool    `json:"is_meaningful_improvement"`
	SimilarityScore         float64 `json:"similarity_score"`
}

// WorkflowMetadata aggregates run-level accounting that the original
// implementation's coordinator envelope returns (run_id, timing, cost
// rollups) but the distilled spec's entity list omits.
type WorkflowMetadata struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	TotalTokens       int       `json:"total_tokens"`
	TotalCost         float64   `json:"total_cost"`
	TotalLatencyMillis int64    `json:"total_latency_millis"`
}

// NewWorkflowMetadata creates metadata for a new run with a fresh run ID.
func NewWorkflowMetadata() *WorkflowMetadata {
	return &WorkflowMetadata{RunID: uuid.NewString(), StartedAt: time.Now()}
}

// Accumulate folds one LLMResponseMeta into the running totals.
func (m *WorkflowMetadata) Accumulate(meta LLMResponseMeta) {
	m.TotalTokens += meta.TokensUsed
	m.TotalCost += meta.Cost
	m.TotalLatencyMillis += meta.LatencyMillis
}

// WorkflowResult is the top-level return value of a workflow run.
type WorkflowResult struct {
	Candidates []Candidate       `json:"candidates"`
	Metadata   *WorkflowMetadata `json:"metadata"`
}
