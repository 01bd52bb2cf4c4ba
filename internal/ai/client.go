package ai

import (
	"context"
	"fmt"
)

// Summarizer is the interface for AI providers that condense a block of
// CV experience text into a few sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// InputLimit caps how much text is sent to the model.
const InputLimit = 1024

func buildSystemPrompt() string {
	return `You are an assistant that summarizes work experience for job applications.
Summarize the provided experience in 30-80 words, keeping concrete skills, technologies and achievements.
Return only the summary text, with no preamble and no markdown.`
}

func buildUserPrompt(experience string) string {
	return fmt.Sprintf("Experience:\n%s", experience)
}
