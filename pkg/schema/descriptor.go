// Package schema implements the Schema Registry (C1): declarative
// response contracts for each agent, OpenAPI-3.0-style descriptors for
// structured-output requests, and field-level record validation.
package schema

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Name identifies a registered schema.
type Name string

const (
	NameGeneratedIdeas     Name = "GeneratedIdeas"
	NameCriticEvaluations  Name = "CriticEvaluations"
	NameAdvocacyResponse   Name = "AdvocacyResponse"
	NameSkepticismResponse Name = "SkepticismResponse"
	NameImprovementResponse Name = "ImprovementResponse"
	NameMultiDimBatch      Name = "MultiDimBatch"
	NameInferenceBatch     Name = "InferenceBatch"
)

// Descriptor pairs a schema Name with its OpenAPI-3.0 object model, built
// with github.com/getkin/kin-openapi, the concrete library behind an
// OpenAPI-3.0-style schema descriptor.
type Descriptor struct {
	Name   Name
	Schema *openapi3.Schema
}

// ideaSchema describes one Idea object.
func ideaSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("description", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("key_features", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("category", openapi3.NewStringSchema()).
		WithProperty("tags", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithRequired([]string{"index", "title", "description"})
}

// GeneratedIdeasDescriptor describes the Idea Generator's output: 1..20 Ideas.
func GeneratedIdeasDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("ideas", openapi3.NewArraySchema().
			WithMinItems(1).
			WithMaxItems(20).
			WithItems(ideaSchema())).
		WithRequired([]string{"ideas"})
	return Descriptor{Name: NameGeneratedIdeas, Schema: s}
}

func evaluationSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("score", openapi3.NewFloat64Schema().WithMin(0).WithMax(10)).
		WithProperty("comment", openapi3.NewStringSchema().WithMinLength(10)).
		WithProperty("strengths", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("weaknesses", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithRequired([]string{"idea_index", "score", "comment"})
}

// CriticEvaluationsDescriptor describes the Critic's batch output: one
// Evaluation per idea, same order.
func CriticEvaluationsDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("evaluations", openapi3.NewArraySchema().WithItems(evaluationSchema())).
		WithRequired([]string{"evaluations"})
	return Descriptor{Name: NameCriticEvaluations, Schema: s}
}

func titledItemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("description", openapi3.NewStringSchema().WithMinLength(1)).
		WithRequired([]string{"title", "description"})
}

func concernResponseSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("concern", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("response", openapi3.NewStringSchema().WithMinLength(1)).
		WithRequired([]string{"concern", "response"})
}

func advocacySchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("strengths", openapi3.NewArraySchema().WithMinItems(1).WithItems(titledItemSchema())).
		WithProperty("opportunities", openapi3.NewArraySchema().WithMinItems(1).WithItems(titledItemSchema())).
		WithProperty("addressing_concerns", openapi3.NewArraySchema().WithMinItems(1).WithItems(concernResponseSchema())).
		WithRequired([]string{"idea_index", "strengths", "opportunities", "addressing_concerns"})
}

// AdvocacyResponseDescriptor describes the Advocate's batch output.
func AdvocacyResponseDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("advocacies", openapi3.NewArraySchema().WithItems(advocacySchema())).
		WithRequired([]string{"advocacies"})
	return Descriptor{Name: NameAdvocacyResponse, Schema: s}
}

func assumptionConcernSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("assumption", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("concern", openapi3.NewStringSchema().WithMinLength(1)).
		WithRequired([]string{"assumption", "concern"})
}

func aspectImportanceSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("aspect", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("importance", openapi3.NewStringSchema().WithMinLength(1)).
		WithRequired([]string{"aspect", "importance"})
}

func skepticismSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("critical_flaws", openapi3.NewArraySchema().WithMinItems(1).WithItems(titledItemSchema())).
		WithProperty("risks_challenges", openapi3.NewArraySchema().WithMinItems(1).WithItems(titledItemSchema())).
		WithProperty("questionable_assumptions", openapi3.NewArraySchema().WithMinItems(1).WithItems(assumptionConcernSchema())).
		WithProperty("missing_considerations", openapi3.NewArraySchema().WithMinItems(1).WithItems(aspectImportanceSchema())).
		WithRequired([]string{"idea_index", "critical_flaws", "risks_challenges", "questionable_assumptions", "missing_considerations"})
}

// SkepticismResponseDescriptor describes the Skeptic's batch output.
func SkepticismResponseDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("skepticisms", openapi3.NewArraySchema().WithItems(skepticismSchema())).
		WithRequired([]string{"skepticisms"})
	return Descriptor{Name: NameSkepticismResponse, Schema: s}
}

func improvementSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("improved_idea", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("key_improvements", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("implementation_steps", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("differentiators", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithRequired([]string{"idea_index", "improved_idea"})
}

// ImprovementResponseDescriptor describes the Improver's batch output.
func ImprovementResponseDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("improvements", openapi3.NewArraySchema().WithItems(improvementSchema())).
		WithRequired([]string{"improvements"})
	return Descriptor{Name: NameImprovementResponse, Schema: s}
}

func dimensionScoreSchema() *openapi3.Schema {
	dim := func() *openapi3.Schema { return openapi3.NewFloat64Schema().WithMin(0).WithMax(10) }
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("feasibility", dim()).
		WithProperty("innovation", dim()).
		WithProperty("impact", dim()).
		WithProperty("cost_effectiveness", dim()).
		WithProperty("scalability", dim()).
		WithProperty("risk_assessment", dim()).
		WithProperty("timeline", dim()).
		WithRequired([]string{
			"idea_index", "feasibility", "innovation", "impact",
			"cost_effectiveness", "scalability", "risk_assessment", "timeline",
		})
}

// MultiDimBatchDescriptor describes the Reasoning Engine's multi-dimensional
// batch schema: an array of seven-dimension objects, one per idea.
func MultiDimBatchDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("scores", openapi3.NewArraySchema().WithItems(dimensionScoreSchema())).
		WithRequired([]string{"scores"})
	return Descriptor{Name: NameMultiDimBatch, Schema: s}
}

func inferenceSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("idea_index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("analysis_type", openapi3.NewStringSchema().WithEnum(
			"full", "causal", "constraint", "contradiction", "implications")).
		WithProperty("inference_chain", openapi3.NewArraySchema().WithMinItems(1).WithItems(openapi3.NewStringSchema())).
		WithProperty("conclusion", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("confidence", openapi3.NewFloat64Schema().WithMin(0).WithMax(1)).
		WithProperty("improvements", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("causal_chain", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("constraint_satisfaction", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("contradictions", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("implications", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithRequired([]string{"idea_index", "analysis_type", "inference_chain", "conclusion", "confidence"})
}

// InferenceBatchDescriptor describes the Reasoning Engine's logical
// inference batch schema: one LogicalInference per idea.
func InferenceBatchDescriptor() Descriptor {
	s := openapi3.NewObjectSchema().
		WithProperty("results", openapi3.NewArraySchema().WithItems(inferenceSchema())).
		WithRequired([]string{"results"})
	return Descriptor{Name: NameInferenceBatch, Schema: s}
}
