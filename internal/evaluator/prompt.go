package evaluator

import (
	"strings"

	_ "embed"

	"github.com/FaroutYLq/whatsup/internal/library"
)

//go:embed prompt.md
var promptTemplate string

// systemInstruction frames every scoring request sent to the remote model.
const systemInstruction = "You are an academic research assistant. Evaluate the relevance of papers to the user's research interests."

// buildPrompt renders the scoring request for one paper. The SCORE:/REASON:
// format instruction is load-bearing: the response parser's primary strategy
// depends on it.
func buildPrompt(paper *library.Paper, researchContext, interests string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Title: {{TITLE}}\nAbstract: {{ABSTRACT}}\n\nRespond in the format:\nSCORE: [0-10]\nREASON: [One sentence explanation]"
	}

	prompt := strings.ReplaceAll(template, "{{RESEARCH_CONTEXT}}", researchContext)
	prompt = strings.ReplaceAll(prompt, "{{USER_INTERESTS}}", interests)
	prompt = strings.ReplaceAll(prompt, "{{TITLE}}", paper.Title)
	prompt = strings.ReplaceAll(prompt, "{{ABSTRACT}}", paper.Abstract)

	return prompt
}
