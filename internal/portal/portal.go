package portal

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// BaseURL is the results endpoint; competition listings are POSTed here.
	BaseURL = "https://www.snwktavling.se/?page=resultat"
	// SiteRoot is the absolute root that relative portal links are rebased onto.
	SiteRoot = "https://www.snwktavling.se"

	UserAgent = "snwk-stats-scraper/1.0 (github.com/lokenilsson/snwk-stats)"
	Timeout   = 30 * time.Second

	// RequestDelay and SubpageDelay keep the request cadence polite. They are
	// load-bearing for continued access to the portal, not cosmetic.
	RequestDelay = 2 * time.Second
	SubpageDelay = 500 * time.Millisecond
)

// Years lists the seasons to scrape, newest first.
var Years = []int{2025, 2024, 2023, 2022, 2021, 2020}

// CompetitionTypes lists the portal's type filter values to query.
var CompetitionTypes = []string{"alla"}

// NewClient returns an HTTP client configured with the portal's timeout and
// fixed header set. The portal's listing endpoint only answers XHR-style
// requests, hence the X-Requested-With header.
func NewClient() *resty.Client {
	return resty.New().
		SetTimeout(Timeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("Referer", BaseURL).
		SetHeader("Accept", "application/json, text/javascript, */*; q=0.01").
		SetHeader("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.8")
}

// AbsoluteURL rebases a link found on a portal page onto the site root.
// Links starting with "?" or a bare path are relative to the root; anything
// already absolute is returned unchanged.
func AbsoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, "?"):
		return SiteRoot + "/" + href
	case strings.HasPrefix(href, "/"):
		return SiteRoot + href
	case strings.HasPrefix(href, "http"):
		return href
	default:
		return SiteRoot + "/" + href
	}
}

// Sleep waits for d or until ctx is cancelled, returning the context error
// on cancellation. All inter-request delays go through here so an interrupt
// stops a run promptly.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
