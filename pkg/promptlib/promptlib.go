// Package promptlib provides a minimal agents.PromptLibrary
// implementation: opaque constant prompt templates. Prompt text
// authorship is explicitly out of scope here; this exists so
// cmd/madspark has a concrete collaborator to wire the agents against,
// and a production deployment is expected to supply its own.
package promptlib

import (
	"fmt"
	"strings"

	"github.com/madspark-dev/madspark/pkg/models"
)

// Default is the opaque-constant PromptLibrary implementation.
type Default struct{}

func (Default) IdeaGeneratorPrompt(topic, context string) string {
	return fmt.Sprintf(
		"Generate a diverse set of concrete ideas for the following topic.\n\nTopic: %s\nContext: %s\n",
		topic, context)
}

func (Default) CriticPrompt(ideas []models.Idea, topic, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Critically evaluate each idea below against the topic and context.\n\nTopic: %s\nContext: %s\n\n", topic, context)
	for _, idea := range ideas {
		fmt.Fprintf(&b, "[%d] %s: %s\n", idea.Index, idea.Title, idea.Description)
	}
	return b.String()
}

func (Default) AdvocatePrompt(candidates []models.Candidate, topic, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Argue for each candidate idea's strengths and opportunities.\n\nTopic: %s\nContext: %s\n\n", topic, context)
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] %s: %s\n", i, c.OriginalIdea.Title, c.OriginalIdea.Description)
	}
	return b.String()
}

func (Default) SkepticPrompt(candidates []models.Candidate, topic, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Challenge each candidate idea's flaws, risks, and assumptions.\n\nTopic: %s\nContext: %s\n\n", topic, context)
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] %s: %s\n", i, c.OriginalIdea.Title, c.OriginalIdea.Description)
	}
	return b.String()
}

func (Default) ImproverPrompt(candidates []models.Candidate, topic, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synthesize the advocacy and skepticism below into an improved version of each idea.\n\nTopic: %s\nContext: %s\n\n", topic, context)
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] %s: %s\n", i, c.OriginalIdea.Title, c.OriginalIdea.Description)
		if c.Advocacy != nil && len(c.Advocacy.Strengths) > 0 {
			fmt.Fprintf(&b, "  strength: %s\n", c.Advocacy.Strengths[0].Title)
		}
		if c.Skepticism != nil && len(c.Skepticism.CriticalFlaws) > 0 {
			fmt.Fprintf(&b, "  flaw: %s\n", c.Skepticism.CriticalFlaws[0].Title)
		}
	}
	return b.String()
}
