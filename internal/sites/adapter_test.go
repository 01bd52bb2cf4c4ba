package sites

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kangichu/autojob/internal/models"
)

// stubSource serves canned listings keyed by page index.
type stubSource struct {
	pages  map[int][]Listing
	detail Detail
}

func (stubSource) Name() string { return "Stub" }

func (stubSource) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://stub.test/jobs?page=%d", page)
}

func (s stubSource) ParseListings(html string) []Listing {
	// the stub fetcher encodes the page index as the html payload
	var page int
	fmt.Sscanf(html, "page-%d", &page)
	return s.pages[page]
}

func (s stubSource) ParseDetail(html string) Detail { return s.detail }

type stubFetcher struct {
	calls   []string
	failURL string
}

func (f *stubFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.failURL != "" && url == f.failURL {
		return "", errors.New("boom")
	}
	var page int
	if _, err := fmt.Sscanf(url, "https://stub.test/jobs?page=%d", &page); err == nil {
		return fmt.Sprintf("page-%d", page), nil
	}
	return "detail", nil
}

type memSink struct {
	jobs    []models.JobRecord
	failFor string
}

func (m *memSink) InsertJob(ctx context.Context, job *models.JobRecord) error {
	if m.failFor != "" && job.Title == m.failFor {
		return errors.New("insert failed")
	}
	m.jobs = append(m.jobs, *job)
	return nil
}

type nopReporter struct{ lines []string }

func (r *nopReporter) Progressf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func newTestAdapter(source Source, fetcher Fetcher) *Adapter {
	// zero delays keep tests instant
	return NewAdapter(source, fetcher, 3, 0, 0)
}

func TestAdapterStopsOnEmptyPage(t *testing.T) {
	source := stubSource{pages: map[int][]Listing{
		0: {{Title: "Backend Engineer", Company: "Acme"}},
		// page 1 empty, page 2 must never be fetched
		2: {{Title: "Ghost", Company: "Ghost"}},
	}}
	fetcher := &stubFetcher{}
	sink := &memSink{}

	found, err := newTestAdapter(source, fetcher).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, found)
	assert.Len(t, fetcher.calls, 2)
}

func TestAdapterRespectsPageCap(t *testing.T) {
	pages := map[int][]Listing{}
	for i := 0; i < 10; i++ {
		pages[i] = []Listing{{Title: fmt.Sprintf("Job %d", i), Company: "Acme"}}
	}
	fetcher := &stubFetcher{}
	sink := &memSink{}

	found, err := newTestAdapter(stubSource{pages: pages}, fetcher).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 3, found)
}

func TestAdapterEnrichesFromDetailPage(t *testing.T) {
	source := stubSource{
		pages: map[int][]Listing{
			0: {{Title: "Backend Engineer", Company: "Acme", URL: "https://stub.test/job/1", Description: "short"}},
		},
		detail: Detail{Description: "Full description, contact careers@acme.com", Salary: "KSh 200,000"},
	}
	sink := &memSink{}

	found, err := newTestAdapter(source, &stubFetcher{}).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, found)
	job := sink.jobs[0]
	assert.Equal(t, "Full description, contact careers@acme.com", job.Description)
	assert.Equal(t, "KSh 200,000", job.Salary)
	assert.Equal(t, "careers@acme.com", job.Email)
	assert.Equal(t, models.JobFound, job.Status)
}

func TestAdapterKeepsListingOnDetailFetchFailure(t *testing.T) {
	source := stubSource{
		pages: map[int][]Listing{
			0: {{Title: "Backend Engineer", Company: "Acme", URL: "https://stub.test/job/1", Description: "listing text"}},
		},
		detail: Detail{Description: "never used"},
	}
	fetcher := &stubFetcher{failURL: "https://stub.test/job/1"}
	sink := &memSink{}

	found, err := newTestAdapter(source, fetcher).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, found)
	assert.Equal(t, "listing text", sink.jobs[0].Description)
}

func TestAdapterSkipsDuplicateURLs(t *testing.T) {
	dup := Listing{Title: "Backend Engineer", Company: "Acme", URL: "https://stub.test/job/1"}
	source := stubSource{pages: map[int][]Listing{
		0: {dup, dup},
		1: {dup},
	}}
	sink := &memSink{}

	found, err := newTestAdapter(source, &stubFetcher{}).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, found)
	assert.Len(t, sink.jobs, 1)
}

func TestAdapterIsolatesInsertErrors(t *testing.T) {
	source := stubSource{pages: map[int][]Listing{
		0: {
			{Title: "Bad Job", Company: "Acme"},
			{Title: "Good Job", Company: "Acme"},
		},
	}}
	sink := &memSink{failFor: "Bad Job"}

	found, err := newTestAdapter(source, &stubFetcher{}).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, found)
	assert.Equal(t, "Good Job", sink.jobs[0].Title)
}

func TestAdapterReportsPageFetchError(t *testing.T) {
	fetcher := &stubFetcher{failURL: "https://stub.test/jobs?page=0"}
	sink := &memSink{}

	found, err := newTestAdapter(stubSource{}, fetcher).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.Error(t, err)
	assert.Equal(t, 0, found)
}

func TestAdapterFillsMissingFieldsWithNA(t *testing.T) {
	source := stubSource{pages: map[int][]Listing{
		0: {{Title: "", Company: ""}},
	}}
	sink := &memSink{}

	_, err := newTestAdapter(source, &stubFetcher{}).Search(context.Background(), Query{Keywords: "go"}, sink, &nopReporter{})

	assert.NoError(t, err)
	assert.Equal(t, "N/A", sink.jobs[0].Title)
	assert.Equal(t, "N/A", sink.jobs[0].Company)
}
