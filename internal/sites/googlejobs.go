package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// GoogleJobs scrapes the jobs widget on a Google results page. Cards carry
// no stable outbound URL, so listings are taken as-is with whatever
// description the widget exposes and are never detail-enriched.
type GoogleJobs struct{}

func (GoogleJobs) Name() string { return "Google Jobs" }

func (GoogleJobs) PageURL(q Query, page int) string {
	query := fmt.Sprintf("%s jobs in %s", q.Keywords, q.Location)
	return fmt.Sprintf("https://www.google.com/search?q=%s&start=%d",
		url.QueryEscape(query), page*10)
}

func (GoogleJobs) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find(`div[jsname="QGGMK"]`).Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, Listing{
			Title:       text(card.Find(`div[role="heading"]`).First()),
			Company:     text(card.Find(`div[class*="vNEEBe"]`).First()),
			Location:    text(card.Find(`div[class*="Qk80Jf"]`).First()),
			Description: text(card.Find(`div[class*="nDgy9d"]`).First()),
		})
	})
	return listings
}

func (GoogleJobs) ParseDetail(html string) Detail {
	return Detail{}
}
