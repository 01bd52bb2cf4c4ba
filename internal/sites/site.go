// Contracts shared by all job sources.
// A Source knows URLs and selectors; the Adapter owns everything else.

package sites

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kangichu/autojob/internal/models"
)

// Query is one search request as entered by the user.
type Query struct {
	Keywords string
	Location string
}

// Listing is a posting as it appears on a results page, before detail
// enrichment.
type Listing struct {
	Company     string
	Title       string
	Location    string
	URL         string
	Description string
}

// Detail holds fields extracted from a listing's own page.
type Detail struct {
	Description string
	Salary      string
}

// Source defines what differs between job sites: URL construction and
// selector strategies. Paging, enrichment and error isolation are shared.
type Source interface {
	// Name is the site name (Indeed, Glassdoor, ...)
	Name() string

	// PageURL builds the results-page URL for a zero-based page index.
	PageURL(q Query, page int) string

	// ParseListings extracts listings from a results page. Cards that
	// cannot be parsed are skipped, never returned as errors.
	ParseListings(html string) []Listing

	// ParseDetail extracts description and salary from a listing's page.
	ParseDetail(html string) Detail
}

// Fetcher retrieves raw HTML for a URL.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// JobSink receives each discovered job as it is found.
type JobSink interface {
	InsertJob(ctx context.Context, job *models.JobRecord) error
}

// Reporter receives human-readable progress lines. Implementations must be
// safe to call from the search worker goroutine.
type Reporter interface {
	Progressf(format string, args ...any)
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// FirstEmail returns the first RFC-5322-shaped address in text, or "".
func FirstEmail(text string) string {
	return emailRegex.FindString(text)
}

// joinURL resolves href against base, returning "" for unusable hrefs.
func joinURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}

func parseDoc(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
