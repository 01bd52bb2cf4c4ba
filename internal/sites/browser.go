package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher drives a real headless browser for sources that render
// client-side or sit behind aggressive bot checks. Pages share one browser
// context, so session cookies survive between fetches.
type BrowserFetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func NewBrowserFetcher(cookiesPath string) (*BrowserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not launch playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgents[rand.Intn(len(userAgents))]),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if cookiesPath != "" {
		cookies, err := LoadCookies(cookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", cookiesPath, err)
		} else if len(cookies) > 0 {
			if err := bctx.AddCookies(cookies); err != nil {
				log.Printf("⚠️ Could not add cookies: %v", err)
			} else {
				log.Printf("🍪 Loaded %d cookies", len(cookies))
			}
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &BrowserFetcher{pw: pw, browser: browser, page: page}, nil
}

func (f *BrowserFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if _, err := f.page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}
	content, err := f.page.Content()
	if err != nil {
		return "", fmt.Errorf("could not read page content: %w", err)
	}
	return content, nil
}

func (f *BrowserFetcher) Close() error {
	if f.browser != nil {
		f.browser.Close()
	}
	if f.pw != nil {
		return f.pw.Stop()
	}
	return nil
}

//Cookie represents a browser cookie from a JSON export
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}

	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.toPlaywright()
	}
	return pwCookies, nil
}

func (c Cookie) toPlaywright() playwright.OptionalCookie {
	cookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		cookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		cookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		cookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		cookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		cookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		cookie.SameSite = playwright.SameSiteAttributeNone
	}

	return cookie
}
