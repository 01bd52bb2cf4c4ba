package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type BrighterMonday struct{}

func (BrighterMonday) Name() string { return "BrighterMonday" }

func (BrighterMonday) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://www.brightermonday.co.ke/jobs?search=%s&location=%s&page=%d",
		url.QueryEscape(q.Keywords), url.QueryEscape(q.Location), page+1)
}

func (BrighterMonday) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("div.search-result").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:       text(card.Find("h3").First()),
			Company:     text(card.Find("a.company-name").First()),
			Location:    text(card.Find("span.location").First()),
			Description: text(card.Find("div.job-desc").First()),
		}
		if href, ok := card.Find("a").First().Attr("href"); ok {
			listing.URL = joinURL("https://www.brightermonday.co.ke", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (BrighterMonday) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div.job-description").First()),
		Salary:      text(doc.Find("span.salary").First()),
	}
}
