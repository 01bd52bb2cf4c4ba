package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type Glassdoor struct{}

func (Glassdoor) Name() string { return "Glassdoor" }

func (Glassdoor) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://www.glassdoor.com/Job/jobs.htm?sc.keyword=%s&locT=C&locKeyword=%s&page=%d",
		url.QueryEscape(q.Keywords), url.QueryEscape(q.Location), page+1)
}

func (Glassdoor) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("li.react-job-listing").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:    text(card.Find("a.jobLink span").First()),
			Company:  text(card.Find("div.jobHeader a").First()),
			Location: text(card.Find("span.pr-xxsm").First()),
		}
		if href, ok := card.Find("a.jobLink").First().Attr("href"); ok {
			listing.URL = joinURL("https://www.glassdoor.com", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (Glassdoor) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div.desc").First()),
		Salary:      text(doc.Find("span.salary").First()),
	}
}
