package lister

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/lokenilsson/snwk-stats/internal/competition"
	"github.com/lokenilsson/snwk-stats/internal/logger"
	"github.com/lokenilsson/snwk-stats/internal/portal"
)

// linkKeywords is the heuristic filter separating competition links from
// navigation chrome; an anchor qualifies when its href contains any of them.
var linkKeywords = []string{"page=showres", "page=", "tavling"}

// Lister discovers competitions per year and type on the results portal
type Lister struct {
	client *resty.Client
	url    string
	years  []int
	types  []string
	delay  time.Duration
}

// New creates a Lister for the given seasons and type filters, with the
// given delay between year requests
func New(years []int, types []string, delay time.Duration) *Lister {
	return &Lister{
		client: portal.NewClient(),
		url:    portal.BaseURL,
		years:  years,
		types:  types,
		delay:  delay,
	}
}

// envelope is the JSON wrapper the listing endpoint answers with
type envelope struct {
	Body string `json:"body"`
}

// ListYear fetches the competition list for one year and competition type.
// All failures are logged and yield an empty list.
func (l *Lister) ListYear(ctx context.Context, year int, compType string) []competition.Competition {
	logger.Info("fetching competitions", logger.Fields{
		"year": year,
		"type": compType,
	})

	start := time.Now()
	resp, err := l.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"tavTyp": compType,
			"klass":  "alla",
			"year":   strconv.Itoa(year),
		}).
		Post(l.url)
	logger.RecordTiming("portal.list_fetch", time.Since(start))

	if err != nil {
		logger.Error("network error fetching year", logger.Fields{"year": year}, err)
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		logger.Error("listing request failed", logger.Fields{"year": year},
			fmt.Errorf("unexpected status code: %d", resp.StatusCode()))
		return nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		logger.Error("malformed listing response", logger.Fields{"year": year}, err)
		return nil
	}
	if env.Body == "" {
		logger.Warn("no body in listing response", logger.Fields{"year": year})
		return nil
	}

	comps, err := parseCompetitions(strings.NewReader(env.Body), year, compType)
	if err != nil {
		logger.Error("parsing listing fragment", logger.Fields{"year": year}, err)
		return nil
	}

	logger.Info("found competitions", logger.Fields{
		"year":  year,
		"count": len(comps),
	})
	return comps
}

// ListAll iterates the configured years and types and aggregates every
// year's competitions into one flat list. A fixed delay separates year
// iterations, except after the final one. No per-year failure stops the
// crawl; the only returned error is context cancellation.
func (l *Lister) ListAll(ctx context.Context) ([]competition.Competition, error) {
	all := make([]competition.Competition, 0)

	logger.Info("starting competition discovery", logger.Fields{
		"years": l.years,
		"delay": l.delay.String(),
	})

	for i, year := range l.years {
		for _, compType := range l.types {
			if err := ctx.Err(); err != nil {
				return all, err
			}
			all = append(all, l.ListYear(ctx, year, compType)...)
			logger.IncrCounter("lister.years_fetched")

			if i < len(l.years)-1 {
				if err := portal.Sleep(ctx, l.delay); err != nil {
					return all, err
				}
			}
		}
	}

	return all, nil
}

// parseCompetitions extracts competition links from a listing HTML fragment
func parseCompetitions(r io.Reader, year int, compType string) ([]competition.Competition, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	comps := make([]competition.Competition, 0)
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !competitionLink(href) {
			return
		}

		url := href
		if strings.HasPrefix(href, "?") {
			url = portal.SiteRoot + "/" + href
		}

		comps = append(comps, competition.Competition{
			URL:  url,
			Text: strings.Join(strings.Fields(sel.Text()), " "),
			Year: year,
			Type: compType,
		})
	})

	return comps, nil
}

func competitionLink(href string) bool {
	lowered := strings.ToLower(href)
	for _, keyword := range linkKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
