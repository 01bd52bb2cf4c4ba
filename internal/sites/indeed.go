package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type Indeed struct{}

func (Indeed) Name() string { return "Indeed" }

func (Indeed) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://www.indeed.com/jobs?q=%s&l=%s&fromage=7&start=%d",
		url.QueryEscape(q.Keywords), url.QueryEscape(q.Location), page*10)
}

func (Indeed) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:       text(card.Find("h2.jobTitle span").First()),
			Company:     text(card.Find("span.companyName").First()),
			Location:    text(card.Find("div.companyLocation").First()),
			Description: text(card.Find("div.job-snippet").First()),
		}
		if href, ok := card.Find("a").First().Attr("href"); ok {
			listing.URL = joinURL("https://www.indeed.com", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (Indeed) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div#jobDescriptionText").First()),
		Salary:      text(doc.Find("div#salaryInfoAndJobType").First()),
	}
}
