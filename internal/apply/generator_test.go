package apply

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/kangichu/autojob/internal/config"
	"github.com/kangichu/autojob/internal/models"
)

type memStore struct {
	jobs    []models.JobRecord
	queued  []models.EmailTask
	failFor int64
}

func (m *memStore) ListJobsByStatus(ctx context.Context, status models.JobStatus) ([]models.JobRecord, error) {
	var out []models.JobRecord
	for _, j := range m.jobs {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) EnqueueEmail(ctx context.Context, task *models.EmailTask) error {
	if m.failFor != 0 && task.JobID == m.failFor {
		return errors.New("enqueue failed")
	}
	m.queued = append(m.queued, *task)
	return nil
}

type fakeSummarizer struct {
	summary string
	err     error
	gotText string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.gotText = text
	return f.summary, f.err
}

func foundJob(id int64, title, company, email string) models.JobRecord {
	return models.JobRecord{
		ID: id, Title: title, Company: company, Email: email,
		Location: "Nairobi", Status: models.JobFound,
	}
}

func TestGenerateQueuesOneTaskPerEmailedJob(t *testing.T) {
	store := &memStore{jobs: []models.JobRecord{
		foundJob(1, "Backend Engineer", "Acme", "careers@acme.com"),
		foundJob(2, "Data Analyst", "Beta", ""),
		foundJob(3, "QA Engineer", "Gamma", "N/A"),
		{ID: 4, Title: "Old Role", Company: "Delta", Email: "x@delta.com", Status: models.JobApplied},
	}}
	gen := NewGenerator(store, nil)

	queued, err := gen.Generate(context.Background(),
		config.DefaultSubjectTemplate, "Dear {company_name},{experience}", "worked on Go services", "go")

	assert.NoError(t, err)
	assert.Equal(t, 1, queued)
	assert.Len(t, store.queued, 1)

	task := store.queued[0]
	assert.Equal(t, int64(1), task.JobID)
	assert.Equal(t, "careers@acme.com", task.Recipient)
	assert.Equal(t, "Application for Backend Engineer Position at Acme", task.Subject)
}

func TestGenerateRendersExperienceBlockIntoBody(t *testing.T) {
	store := &memStore{jobs: []models.JobRecord{
		foundJob(1, "Backend Engineer", "Acme", "careers@acme.com"),
	}}
	summarizer := &fakeSummarizer{summary: "Three years building Go APIs."}
	gen := NewGenerator(store, summarizer)

	_, err := gen.Generate(context.Background(),
		"subject", "Intro.{experience}Outro.", "Backend engineer work on Go APIs", "go")

	assert.NoError(t, err)
	body := store.queued[0].Body
	assert.Contains(t, body, "Relevant Experience:\nThree years building Go APIs.")
	assert.True(t, strings.HasPrefix(body, "Intro.\n"))
	assert.True(t, strings.HasSuffix(body, "Outro."))
}

func TestGenerateFallsBackWhenSummarizerFails(t *testing.T) {
	long := strings.Repeat("x", 400)
	store := &memStore{jobs: []models.JobRecord{
		foundJob(1, "Backend Engineer", "Acme", "careers@acme.com"),
	}}
	gen := NewGenerator(store, &fakeSummarizer{err: errors.New("quota")})

	_, err := gen.Generate(context.Background(), "s", "{experience}", long, "")

	assert.NoError(t, err)
	// fallback is the first 300 chars of the matched experience text
	assert.Contains(t, store.queued[0].Body, strings.Repeat("x", 300))
	assert.NotContains(t, store.queued[0].Body, strings.Repeat("x", 301))
}

func TestGenerateTruncatesSummarizerInput(t *testing.T) {
	long := strings.Repeat("backend ", 400)
	store := &memStore{jobs: []models.JobRecord{
		foundJob(1, "Backend Engineer", "Acme", "careers@acme.com"),
	}}
	summarizer := &fakeSummarizer{summary: "ok"}
	gen := NewGenerator(store, summarizer)

	_, err := gen.Generate(context.Background(), "s", "{experience}", long, "")

	assert.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(summarizer.gotText), 1024)
}

func TestGenerateFallbackCutsAtRuneBoundary(t *testing.T) {
	// two-byte runes: a byte-indexed cut would leave a broken sequence
	long := strings.Repeat("é", 400)
	store := &memStore{jobs: []models.JobRecord{
		foundJob(1, "Backend Engineer", "Acme", "careers@acme.com"),
	}}
	gen := NewGenerator(store, &fakeSummarizer{err: errors.New("quota")})

	_, err := gen.Generate(context.Background(), "s", "{experience}", long, "")

	assert.NoError(t, err)
	body := store.queued[0].Body
	assert.True(t, utf8.ValidString(body))
	assert.Contains(t, body, strings.Repeat("é", 300))
	assert.NotContains(t, body, strings.Repeat("é", 301))
}

func TestGenerateIsolatesEnqueueErrors(t *testing.T) {
	store := &memStore{
		jobs: []models.JobRecord{
			foundJob(1, "Backend Engineer", "Acme", "a@acme.com"),
			foundJob(2, "Frontend Engineer", "Beta", "b@beta.com"),
		},
		failFor: 1,
	}
	gen := NewGenerator(store, nil)

	queued, err := gen.Generate(context.Background(), "s", "b", "", "")

	assert.NoError(t, err)
	assert.Equal(t, 1, queued)
	assert.Equal(t, int64(2), store.queued[0].JobID)
}

func TestRenderTemplate(t *testing.T) {
	job := models.JobRecord{Title: "Backend Engineer", Company: "Acme", Location: "Nairobi"}

	out := RenderTemplate("{job_title} at {company_name} in {location}{experience}", job, " X")

	assert.Equal(t, "Backend Engineer at Acme in Nairobi X", out)
}

func TestRelevantExperienceMatchesTitleAndKeywords(t *testing.T) {
	experience := `Led a team of frontend developers.
Built backend services in Go.
Maintained CI pipelines with Jenkins.`

	out := RelevantExperience("Backend Engineer", "go, jenkins", experience)

	assert.Contains(t, out, "Built backend services in Go.")
	assert.Contains(t, out, "Maintained CI pipelines with Jenkins.")
	assert.NotContains(t, out, "frontend developers")
}

func TestRelevantExperienceFallsBackToFirstLines(t *testing.T) {
	experience := "line one\nline two\nline three\nline four"

	out := RelevantExperience("Astronaut", "", experience)

	assert.Equal(t, "line one\nline two\nline three", out)
}

func TestRelevantExperienceEmptyInput(t *testing.T) {
	assert.Empty(t, RelevantExperience("Backend Engineer", "go", "  "))
}
