// Turns saved jobs into queued application emails: pick the relevant
// slice of the CV, summarize it and render the templates.

package apply

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/kangichu/autojob/internal/ai"
	"github.com/kangichu/autojob/internal/models"
)

// JobStore is what the generator needs from persistence.
type JobStore interface {
	ListJobsByStatus(ctx context.Context, status models.JobStatus) ([]models.JobRecord, error)
	EnqueueEmail(ctx context.Context, task *models.EmailTask) error
}

type Generator struct {
	store      JobStore
	summarizer ai.Summarizer
}

func NewGenerator(store JobStore, summarizer ai.Summarizer) *Generator {
	return &Generator{store: store, summarizer: summarizer}
}

// Generate queues one application email for every found job that has a
// contact address. Jobs without an email are skipped, not failed. Returns
// how many tasks were queued.
func (g *Generator) Generate(ctx context.Context, subjectTmpl, bodyTmpl, experienceText, keywords string) (int, error) {
	jobs, err := g.store.ListJobsByStatus(ctx, models.JobFound)
	if err != nil {
		return 0, fmt.Errorf("failed to list found jobs: %w", err)
	}

	queued := 0
	for _, job := range jobs {
		if job.Email == "" || job.Email == "N/A" {
			continue
		}

		relevant := RelevantExperience(job.Title, keywords, experienceText)
		block := g.experienceBlock(ctx, relevant)

		task := models.EmailTask{
			JobID:     job.ID,
			Recipient: job.Email,
			Subject:   RenderTemplate(subjectTmpl, job, ""),
			Body:      RenderTemplate(bodyTmpl, job, block),
		}
		if err := g.store.EnqueueEmail(ctx, &task); err != nil {
			log.Printf("⚠️ Failed to queue application for %q: %v", job.Title, err)
			continue
		}
		queued++
	}
	return queued, nil
}

// RenderTemplate substitutes the supported placeholders into a template.
func RenderTemplate(tmpl string, job models.JobRecord, experience string) string {
	replacer := strings.NewReplacer(
		"{job_title}", job.Title,
		"{company_name}", job.Company,
		"{location}", job.Location,
		"{experience}", experience,
	)
	return replacer.Replace(tmpl)
}

// RelevantExperience picks CV lines that mention the job title or any of
// the search keywords. When nothing matches, the first few lines of the
// experience section stand in.
func RelevantExperience(jobTitle, keywords, experienceText string) string {
	if strings.TrimSpace(experienceText) == "" {
		return ""
	}

	terms := []string{strings.ToLower(jobTitle)}
	for _, kw := range strings.Split(keywords, ",") {
		if kw = strings.TrimSpace(strings.ToLower(kw)); kw != "" {
			terms = append(terms, kw)
		}
	}

	lines := strings.Split(experienceText, "\n")
	var matched []string
	for _, line := range lines {
		lowered := strings.ToLower(line)
		for _, term := range terms {
			if term != "" && strings.Contains(lowered, term) {
				matched = append(matched, strings.TrimSpace(line))
				break
			}
		}
	}
	if len(matched) == 0 {
		// nothing matched, fall back to the opening lines
		matched = lines
		if len(matched) > 3 {
			matched = matched[:3]
		}
		for i, line := range matched {
			matched[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(matched, "\n")
}

// experienceBlock summarizes the matched experience and wraps it for the
// email body. A failing or absent summarizer degrades to the raw opening
// of the text; empty input yields an empty block.
func (g *Generator) experienceBlock(ctx context.Context, experience string) string {
	summary := g.summarize(ctx, experience)
	if summary == "" {
		return ""
	}
	return fmt.Sprintf("\nRelevant Experience:\n%s\n", summary)
}

func (g *Generator) summarize(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = truncateRunes(text, ai.InputLimit)

	if g.summarizer != nil {
		summary, err := g.summarizer.Summarize(ctx, text)
		if err != nil {
			log.Printf("⚠️ Summarizer failed, using raw experience text: %v", err)
		} else if strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
	}

	return truncateRunes(text, 300)
}

// truncateRunes cuts after n runes, never mid-sequence.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
