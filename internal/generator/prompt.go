// Package generator turns retrieved passages and a question into an answer.
package generator

import (
	"strings"
)

// DontKnow is the answer the prompt asks for when the context is insufficient.
const DontKnow = "I don't know"

// BuildPrompt renders the grounded question-answering prompt.
func BuildPrompt(passages []string, question string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant.\n")
	b.WriteString("Answer the question ONLY using the context below.\n")
	b.WriteString("If the answer is not in the context, say \"" + DontKnow + "\".\n\n")
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(passages, "\n"))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n")
	return b.String()
}
