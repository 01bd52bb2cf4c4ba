package search

import (
	"context"
	"log"

	"github.com/kangichu/autojob/internal/models"
	"github.com/kangichu/autojob/internal/sites"
)

// SeenCache remembers job URLs across runs.
type SeenCache interface {
	IsSeen(url string) bool
	Add(urls ...string)
}

// JobNotifier announces fresh jobs to an external channel.
type JobNotifier interface {
	SendJob(job models.JobRecord) error
}

// Sink layers notifications over the persistence layer. Every job is
// stored; the seen cache only decides whether a job is announced again,
// so repeat searches stay quiet without losing rows. Cache and notifier
// are both optional.
type Sink struct {
	store    sites.JobSink
	cache    SeenCache
	notifier JobNotifier
}

func NewSink(store sites.JobSink, cache SeenCache, notifier JobNotifier) *Sink {
	return &Sink{store: store, cache: cache, notifier: notifier}
}

func (s *Sink) InsertJob(ctx context.Context, job *models.JobRecord) error {
	if err := s.store.InsertJob(ctx, job); err != nil {
		return err
	}

	fresh := true
	if s.cache != nil && job.URL != "" && job.URL != "N/A" {
		fresh = !s.cache.IsSeen(job.URL)
		if fresh {
			s.cache.Add(job.URL)
		}
	}
	if fresh && s.notifier != nil {
		if err := s.notifier.SendJob(*job); err != nil {
			log.Printf("⚠️ Failed to announce job %q: %v", job.Title, err)
		}
	}
	return nil
}
