package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type CareerBuilder struct{}

func (CareerBuilder) Name() string { return "CareerBuilder" }

func (CareerBuilder) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://www.careerbuilder.com/jobs?keywords=%s&location=%s&page=%d",
		url.QueryEscape(q.Keywords), url.QueryEscape(q.Location), page+1)
}

func (CareerBuilder) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("div.data-results-content-parent div.data-results-content-block").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:    text(card.Find("h2 a").First()),
			Company:  text(card.Find("div.data-details span[data-company]").First()),
			Location: text(card.Find("div.data-details span[data-location]").First()),
		}
		//CareerBuilder links are already absolute
		if href, ok := card.Find("h2 a").First().Attr("href"); ok {
			listing.URL = joinURL("https://www.careerbuilder.com", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (CareerBuilder) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div.job-description").First()),
		Salary:      text(doc.Find("div.salary").First()),
	}
}
