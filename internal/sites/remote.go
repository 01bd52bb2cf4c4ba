// Remote-only boards ignore the location part of the query; every listing
// is pinned to "Remote".

package sites

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

type RemoteOK struct{}

func (RemoteOK) Name() string { return "Remote OK" }

func (RemoteOK) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://remoteok.com/remote-%s-jobs?page=%d", slugify(q.Keywords), page+1)
}

func (RemoteOK) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("tr.job").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:    text(card.Find("h2").First()),
			Company:  text(card.Find("td.company").First()),
			Location: "Remote",
		}
		if href, ok := card.Find("a.preventLink").First().Attr("href"); ok {
			listing.URL = joinURL("https://remoteok.com", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (RemoteOK) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div.description").First()),
		Salary:      text(doc.Find("span.salary").First()),
	}
}

type WeWorkRemotely struct{}

func (WeWorkRemotely) Name() string { return "We Work Remotely" }

func (WeWorkRemotely) PageURL(q Query, page int) string {
	return fmt.Sprintf("https://weworkremotely.com/remote-jobs/search?term=%s&page=%d",
		url.QueryEscape(q.Keywords), page+1)
}

func (WeWorkRemotely) ParseListings(html string) []Listing {
	doc := parseDoc(html)
	if doc == nil {
		return nil
	}
	var listings []Listing
	doc.Find("section.jobs article").Each(func(_ int, card *goquery.Selection) {
		listing := Listing{
			Title:    text(card.Find("span.title").First()),
			Company:  text(card.Find("span.company").First()),
			Location: "Remote",
		}
		if href, ok := card.Find("a").First().Attr("href"); ok {
			listing.URL = joinURL("https://weworkremotely.com", href)
		}
		listings = append(listings, listing)
	})
	return listings
}

func (WeWorkRemotely) ParseDetail(html string) Detail {
	doc := parseDoc(html)
	if doc == nil {
		return Detail{}
	}
	return Detail{
		Description: text(doc.Find("div.listing-container").First()),
		Salary:      text(doc.Find("div.salary").First()),
	}
}
