package sites

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/kangichu/autojob/internal/models"
)

// Adapter runs one Source: pages through results up to PageCap, enriches
// listings from their detail pages, extracts contact emails and saves each
// job through the sink as it is found. A zero-listing page means "no more
// results" and ends the site early.
type Adapter struct {
	Source   Source
	Fetcher  Fetcher
	PageCap  int
	DelayMin time.Duration
	DelayMax time.Duration
}

func NewAdapter(source Source, fetcher Fetcher, pageCap int, delayMin, delayMax time.Duration) *Adapter {
	return &Adapter{
		Source:   source,
		Fetcher:  fetcher,
		PageCap:  pageCap,
		DelayMin: delayMin,
		DelayMax: delayMax,
	}
}

func (a *Adapter) Name() string {
	return a.Source.Name()
}

// Search pages through the source and returns how many jobs were saved.
// Errors from individual listings are isolated; only a page-level fetch
// failure aborts the site.
func (a *Adapter) Search(ctx context.Context, q Query, sink JobSink, report Reporter) (int, error) {
	report.Progressf("Searching %s...", a.Source.Name())
	found := 0
	seen := mapset.NewSet[string]()

	for page := 0; page < a.PageCap; page++ {
		html, err := a.Fetcher.FetchPage(ctx, a.Source.PageURL(q, page))
		if err != nil {
			return found, fmt.Errorf("fetching page %d: %w", page+1, err)
		}

		listings := a.Source.ParseListings(html)
		if len(listings) == 0 {
			report.Progressf("No more jobs found on %s page %d", a.Source.Name(), page+1)
			break
		}

		for _, listing := range listings {
			//same listing can show up on multiple pages
			if listing.URL != "" && !seen.Add(listing.URL) {
				continue
			}

			job := a.buildJob(ctx, listing)

			if err := sink.InsertJob(ctx, job); err != nil {
				//discovery is best-effort, drop this one and keep going
				log.Printf("⚠️ Failed to save job %q: %v", job.Title, err)
				continue
			}
			found++
			report.Progressf("Found: %s at %s", job.Title, job.Company)
		}

		a.delayBetween()
	}

	report.Progressf("%s search completed. Found %d jobs.", a.Source.Name(), found)
	return found, nil
}

// buildJob fills a record from the listing and, when a detail URL exists,
// enriches it with the full description, salary and contact email. A
// failed detail fetch keeps the listing-level data.
func (a *Adapter) buildJob(ctx context.Context, listing Listing) *models.JobRecord {
	job := &models.JobRecord{
		Company:     orNA(listing.Company),
		Title:       orNA(listing.Title),
		Location:    listing.Location,
		URL:         listing.URL,
		Description: listing.Description,
		DateFound:   time.Now(),
		Status:      models.JobFound,
	}

	if job.URL != "" {
		a.delayBetween()
		html, err := a.Fetcher.FetchPage(ctx, job.URL)
		if err != nil {
			log.Printf("⚠️ Error fetching details for job %q: %v", job.Title, err)
		} else {
			detail := a.Source.ParseDetail(html)
			if detail.Description != "" {
				job.Description = detail.Description
			}
			job.Salary = detail.Salary
		}
	}

	job.Email = FirstEmail(job.Description)
	return job
}

// delayBetween sleeps a bounded random duration between consecutive
// fetches so the source is not hammered.
func (a *Adapter) delayBetween() {
	if a.DelayMax <= 0 {
		return
	}
	d := a.DelayMin
	if a.DelayMax > a.DelayMin {
		d += time.Duration(rand.Int63n(int64(a.DelayMax - a.DelayMin)))
	}
	time.Sleep(d)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
