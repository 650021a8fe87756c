package subpage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/lokenilsson/snwk-stats/internal/competition"
	"github.com/lokenilsson/snwk-stats/internal/logger"
	"github.com/lokenilsson/snwk-stats/internal/portal"
)

// locationPattern pulls the quoted URL out of an inline navigation handler
// like onclick="location='?page=showres&arr=123'"
var locationPattern = regexp.MustCompile(`location='([^']+)'`)

// Extractor fetches competition pages and extracts their result subpages
type Extractor struct {
	client *resty.Client
}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{
		client: portal.NewClient(),
	}
}

// Extract fetches the competition page at url and returns its result
// subpages. Fetch and parse failures yield a Subpages with an empty list and
// the error recorded as data, never a returned error.
func (e *Extractor) Extract(ctx context.Context, url string) competition.Subpages {
	sp := competition.Subpages{
		MainURL:  url,
		Subpages: []competition.Subpage{},
	}

	start := time.Now()
	resp, err := e.client.R().SetContext(ctx).Get(url)
	logger.RecordTiming("portal.page_fetch", time.Since(start))

	if err != nil {
		logger.Error("fetching competition page", logger.Fields{"url": url}, err)
		sp.Error = err.Error()
		return sp
	}
	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode())
		logger.Error("fetching competition page", logger.Fields{"url": url}, err)
		sp.Error = err.Error()
		return sp
	}

	pages, err := parseSubpages(bytes.NewReader(resp.Body()))
	if err != nil {
		logger.Error("parsing competition page", logger.Fields{"url": url}, err)
		sp.Error = err.Error()
		return sp
	}

	sp.Subpages = pages
	return sp
}

// parseSubpages extracts qualifying subpage links from a competition page
func parseSubpages(r io.Reader) ([]competition.Subpage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	pages := make([]competition.Subpage, 0)
	doc.Find("button[onclick]").Each(func(i int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Text())
		onclick, _ := sel.Attr("onclick")

		if !strings.Contains(label, "Visa") || !strings.Contains(onclick, "location=") {
			return
		}

		match := locationPattern.FindStringSubmatch(onclick)
		if match == nil {
			return
		}

		buttonID, _ := sel.Attr("id")
		pages = append(pages, competition.Subpage{
			URL:      portal.AbsoluteURL(match[1]),
			Label:    label,
			ButtonID: buttonID,
			OnClick:  onclick,
		})
	})

	return pages, nil
}
