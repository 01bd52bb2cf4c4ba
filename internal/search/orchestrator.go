// Owns the ordered list of enabled sites, runs adapters in sequence and
// keeps enough state for a cancelled run to resume where it left off.

package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kangichu/autojob/internal/sites"
)

var (
	ErrSearchRunning = errors.New("a search is already running")
	ErrNoKeywords    = errors.New("search keywords are required")
	ErrNoSites       = errors.New("at least one job site must be enabled")
)

// SiteAdapter is what the orchestrator needs from one job source.
type SiteAdapter interface {
	Name() string
	Search(ctx context.Context, q sites.Query, sink sites.JobSink, report sites.Reporter) (int, error)
}

// Orchestrator drives one search run at a time over a background
// goroutine. Cancellation is cooperative with per-site granularity: the
// cancel flag is checked before and after each site, never mid-adapter.
type Orchestrator struct {
	adapters []SiteAdapter
	sink     sites.JobSink
	events   chan string

	cancel atomic.Bool

	mu           sync.Mutex
	running      bool
	done         chan struct{}
	resumeIndex  int
	lastKeywords string
	lastLocation string
}

func New(adapters []SiteAdapter, sink sites.JobSink) *Orchestrator {
	return &Orchestrator{
		adapters: adapters,
		sink:     sink,
		events:   make(chan string, 256),
	}
}

// Events exposes progress lines pushed by the worker. The channel is
// buffered and writes never block; a slow consumer loses lines rather
// than stalling the search.
func (o *Orchestrator) Events() <-chan string {
	return o.events
}

// Progressf emits one human-readable progress line.
func (o *Orchestrator) Progressf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
	select {
	case o.events <- msg:
	default:
	}
}

func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Done returns a channel closed when the current run finishes. If no run
// was ever started the returned channel is already closed.
func (o *Orchestrator) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return o.done
}

// Start validates the request and launches the run on a background
// goroutine. A second Start while a run is active returns
// ErrSearchRunning. Changing keywords or location resets the resume
// cursor; otherwise a cancelled run resumes at the next unvisited site.
func (o *Orchestrator) Start(ctx context.Context, keywords, location string, siteNames []string) error {
	if strings.TrimSpace(keywords) == "" {
		return ErrNoKeywords
	}

	enabled := o.selectAdapters(siteNames)
	if len(enabled) == 0 {
		return ErrNoSites
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return ErrSearchRunning
	}

	if keywords != o.lastKeywords || location != o.lastLocation {
		o.resumeIndex = 0
	}
	o.lastKeywords = keywords
	o.lastLocation = location

	start := o.resumeIndex
	if start >= len(enabled) {
		start = 0
	}

	o.cancel.Store(false)
	o.running = true
	o.done = make(chan struct{})

	go o.run(ctx, sites.Query{Keywords: keywords, Location: location}, enabled, start)
	return nil
}

// Stop requests cancellation. Idempotent and non-blocking: the worker
// notices at the next per-site checkpoint.
func (o *Orchestrator) Stop() {
	o.cancel.Store(true)
	o.Progressf("Stopping search...")
}

func (o *Orchestrator) run(ctx context.Context, q sites.Query, enabled []SiteAdapter, start int) {
	defer func() {
		o.mu.Lock()
		o.running = false
		close(o.done)
		o.mu.Unlock()
	}()

	names := make([]string, len(enabled))
	for i, a := range enabled {
		names[i] = a.Name()
	}
	o.Progressf("Starting job search for: %s in %s", q.Keywords, q.Location)
	o.Progressf("Searching on: %s", strings.Join(names, ", "))

	total := 0
	stopped := false

	for i := start; i < len(enabled); i++ {
		if o.cancel.Load() {
			o.saveCursor(i)
			o.Progressf("Search stopped by user.")
			stopped = true
			break
		}

		found, err := enabled[i].Search(ctx, q, o.sink, o)
		total += found
		if err != nil {
			//one broken site never aborts the run
			o.Progressf("Error searching %s: %v", enabled[i].Name(), err)
		}

		if o.cancel.Load() {
			o.saveCursor(i + 1)
			o.Progressf("Search stopped by user.")
			stopped = true
			break
		}
	}

	if !stopped {
		o.saveCursor(0)
	}

	o.Progressf("Search completed! Found %d jobs total.", total)
}

func (o *Orchestrator) saveCursor(index int) {
	o.mu.Lock()
	o.resumeIndex = index
	o.mu.Unlock()
}

// selectAdapters keeps the orchestrator's ordering, filtered to the
// requested site names.
func (o *Orchestrator) selectAdapters(siteNames []string) []SiteAdapter {
	wanted := make(map[string]bool, len(siteNames))
	for _, name := range siteNames {
		wanted[name] = true
	}
	var enabled []SiteAdapter
	for _, a := range o.adapters {
		if wanted[a.Name()] {
			enabled = append(enabled, a)
		}
	}
	return enabled
}
