package search

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers recurring searches on a cron spec. A tick that lands
// while a run is still active is skipped, not queued.
type Scheduler struct {
	c *cron.Cron
}

func NewScheduler(spec string, trigger func() error) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := trigger(); err != nil {
			log.Printf("⏭️ Scheduled search skipped: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() {
	s.c.Start()
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}
