package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kangichu/autojob/internal/models"
	"github.com/kangichu/autojob/internal/sites"
)

type fakeAdapter struct {
	name    string
	found   int
	err     error
	visited *[]string
	// onVisit runs while the adapter is "searching", e.g. to cancel mid-run
	onVisit func()
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Search(ctx context.Context, q sites.Query, sink sites.JobSink, report sites.Reporter) (int, error) {
	*f.visited = append(*f.visited, f.name)
	if f.onVisit != nil {
		f.onVisit()
	}
	return f.found, f.err
}

type discardSink struct{}

func (discardSink) InsertJob(ctx context.Context, job *models.JobRecord) error { return nil }

func newTestOrchestrator(adapters ...*fakeAdapter) (*Orchestrator, *[]string) {
	visited := &[]string{}
	list := make([]SiteAdapter, len(adapters))
	for i, a := range adapters {
		a.visited = visited
		list[i] = a
	}
	return New(list, discardSink{}), visited
}

func waitDone(t *testing.T, o *Orchestrator) {
	t.Helper()
	select {
	case <-o.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("search did not finish in time")
	}
}

func allSiteNames(adapters ...*fakeAdapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.name
	}
	return names
}

func TestStartValidatesInput(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeAdapter{name: "A"})

	assert.ErrorIs(t, o.Start(context.Background(), "  ", "Kenya", []string{"A"}), ErrNoKeywords)
	assert.ErrorIs(t, o.Start(context.Background(), "go", "Kenya", nil), ErrNoSites)
	assert.ErrorIs(t, o.Start(context.Background(), "go", "Kenya", []string{"Unknown"}), ErrNoSites)
}

func TestSearchVisitsSitesInOrder(t *testing.T) {
	a := &fakeAdapter{name: "A", found: 2}
	b := &fakeAdapter{name: "B", found: 3}
	o, visited := newTestOrchestrator(a, b)

	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", allSiteNames(a, b)))
	waitDone(t, o)

	assert.Equal(t, []string{"A", "B"}, *visited)
	assert.False(t, o.Running())
}

func TestSecondStartWhileRunningIsRejected(t *testing.T) {
	release := make(chan struct{})
	a := &fakeAdapter{name: "A", onVisit: func() { <-release }}
	o, _ := newTestOrchestrator(a)

	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", []string{"A"}))
	err := o.Start(context.Background(), "go", "Kenya", []string{"A"})
	assert.ErrorIs(t, err, ErrSearchRunning)

	close(release)
	waitDone(t, o)
}

func TestAdapterErrorDoesNotAbortRun(t *testing.T) {
	a := &fakeAdapter{name: "A", err: errors.New("site down")}
	b := &fakeAdapter{name: "B", found: 1}
	o, visited := newTestOrchestrator(a, b)

	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", allSiteNames(a, b)))
	waitDone(t, o)

	assert.Equal(t, []string{"A", "B"}, *visited)
}

func TestStopResumesAtNextSite(t *testing.T) {
	var o *Orchestrator
	a := &fakeAdapter{name: "A", onVisit: func() { o.Stop() }}
	b := &fakeAdapter{name: "B"}
	c := &fakeAdapter{name: "C"}
	o, visited := newTestOrchestrator(a, b, c)

	names := allSiteNames(a, b, c)
	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", names))
	waitDone(t, o)
	// cancel landed after A finished, so B and C were never visited
	assert.Equal(t, []string{"A"}, *visited)

	a.onVisit = nil
	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", names))
	waitDone(t, o)

	// same query resumes after the last completed site
	assert.Equal(t, []string{"A", "B", "C"}, *visited)
}

func TestChangingQueryResetsResumeCursor(t *testing.T) {
	var o *Orchestrator
	a := &fakeAdapter{name: "A", onVisit: func() { o.Stop() }}
	b := &fakeAdapter{name: "B"}
	o, visited := newTestOrchestrator(a, b)

	names := allSiteNames(a, b)
	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", names))
	waitDone(t, o)
	assert.Equal(t, []string{"A"}, *visited)

	a.onVisit = nil
	assert.NoError(t, o.Start(context.Background(), "rust", "Kenya", names))
	waitDone(t, o)

	// new keywords start over from the first site
	assert.Equal(t, []string{"A", "A", "B"}, *visited)
}

func TestCompletedRunResetsCursor(t *testing.T) {
	a := &fakeAdapter{name: "A"}
	o, visited := newTestOrchestrator(a)

	for i := 0; i < 2; i++ {
		assert.NoError(t, o.Start(context.Background(), "go", "Kenya", []string{"A"}))
		waitDone(t, o)
	}

	assert.Equal(t, []string{"A", "A"}, *visited)
}

func TestEventsCarryProgressLines(t *testing.T) {
	a := &fakeAdapter{name: "A", found: 1}
	o, _ := newTestOrchestrator(a)

	assert.NoError(t, o.Start(context.Background(), "go", "Kenya", []string{"A"}))
	waitDone(t, o)

	var lines []string
	for {
		select {
		case line := <-o.Events():
			lines = append(lines, line)
			continue
		default:
		}
		break
	}
	assert.Contains(t, lines, "Starting job search for: go in Kenya")
	assert.Contains(t, lines, "Search completed! Found 1 jobs total.")
}
