package results

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/lokenilsson/snwk-stats/internal/competition"
	"github.com/lokenilsson/snwk-stats/internal/logger"
	"github.com/lokenilsson/snwk-stats/internal/portal"
)

// refereePattern matches judge lines like "Domare moment 1: Anna Andersson"
var refereePattern = regexp.MustCompile(`Domare\s*[^:]*:\s*(.*)`)

// Parser fetches and parses a competition's result subpages
type Parser struct {
	client *resty.Client
	delay  time.Duration
}

// New creates a Parser with the given delay between subpage fetches
func New(delay time.Duration) *Parser {
	return &Parser{
		client: portal.NewClient(),
		delay:  delay,
	}
}

// Parse turns one competition's subpages into a Result. A competition
// without subpages is terminal and yields (nil, nil). A fetch or parse
// failure on any subpage discards the whole competition and returns the
// error: the contract is all-or-nothing per competition.
func (p *Parser) Parse(ctx context.Context, sp competition.Subpages) (*competition.Result, error) {
	if len(sp.Subpages) == 0 {
		return nil, nil
	}

	res := &competition.Result{
		URL:      sp.Subpages[0].URL,
		Searches: make([]competition.Search, 0, len(sp.Subpages)),
	}
	applyMetadata(res, sp.OriginalText)

	// discipline is the accumulator threaded through the subpage loop: for
	// TEM competitions a subpage's discipline is only recoverable from the
	// heading of the preceding "total" page.
	discipline := ""
	for i, page := range sp.Subpages {
		if i > 0 {
			if err := portal.Sleep(ctx, p.delay); err != nil {
				return nil, err
			}
		}

		doc, err := p.fetch(ctx, page.URL)
		if err != nil {
			return nil, fmt.Errorf("fetching subpage %s: %w", page.URL, err)
		}

		var search competition.Search
		search, discipline = parseSubpage(doc, page, res.Type, discipline)
		res.Searches = append(res.Searches, search)
	}

	return res, nil
}

func (p *Parser) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	start := time.Now()
	resp, err := p.client.R().SetContext(ctx).Get(url)
	logger.RecordTiming("portal.subpage_fetch", time.Since(start))

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	logger.IncrCounter("results.subpages_parsed")
	return doc, nil
}

// parseSubpage folds one subpage into a Search and returns the updated
// discipline accumulator for the next subpage.
func parseSubpage(doc *goquery.Document, page competition.Subpage, compType, discipline string) (competition.Search, string) {
	search := competition.Search{}
	isTotal := lastWord(page.Label) == "total"

	switch compType {
	case "TEM":
		// The "total" page both labels itself and establishes the discipline
		// the per-moment pages inherit.
		if discipline == "" && isTotal {
			search.Discipline = "total"
			if next := headingDiscipline(doc); next != "" {
				discipline = next
			}
		} else if strings.TrimSpace(discipline) != "" {
			search.Discipline = discipline
		}
	case "TSM":
		raw := strings.TrimSuffix(lastWord(page.Label), "sök")
		switch raw {
		case "Behållar":
			discipline = "Behållare"
		case "Fordons":
			discipline = "Fordon"
		default:
			if strings.TrimSpace(raw) != "" {
				discipline = raw
			} else {
				discipline = ""
			}
		}
		if strings.TrimSpace(discipline) != "" {
			search.Discipline = discipline
		}
	}

	search.Judges = extractJudges(doc, isTotal)
	search.Participants = extractParticipants(doc)
	return search, discipline
}

// lastWord returns the final whitespace-separated word of s, or ""
func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// headingDiscipline reads the discipline from the last page heading, e.g.
// "Sök Vatten" yields "Vatten". Empty headings and the literal "total" are
// rejected.
func headingDiscipline(doc *goquery.Document) string {
	headings := doc.Find("h2")
	if headings.Length() == 0 {
		return ""
	}
	word := lastWord(headings.Last().Text())
	if word == "" || word == "total" {
		return ""
	}
	return word
}

// extractJudges pulls judge names out of a subpage. Total pages carry a
// dedicated referee container whose token count encodes the judge count;
// per-moment pages name the judge in a "Domare ...:" paragraph.
func extractJudges(doc *goquery.Document, isTotal bool) []string {
	if isTotal {
		div := doc.Find("div.domardiv")
		if div.Length() == 0 {
			return nil
		}
		tokens := strings.Fields(div.First().Text())
		switch len(tokens) {
		case 4:
			return []string{tokens[2] + " " + tokens[3]}
		case 8:
			return []string{
				tokens[2] + " " + tokens[3],
				tokens[6] + " " + tokens[7],
			}
		case 12:
			return []string{
				tokens[2] + " " + tokens[3],
				tokens[6] + " " + tokens[7],
				tokens[10] + " " + tokens[11],
			}
		default:
			return []string{"okänd"}
		}
	}

	var judges []string
	doc.Find("p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "Domare") {
			return true
		}
		if match := refereePattern.FindStringSubmatch(text); match != nil {
			judges = []string{strings.TrimSpace(match[1])}
		}
		return false
	})
	return judges
}

// Participant row extractors. Each is optional and scanned independently of
// the others; the "Total" variant of a field wins over the per-moment one.
var (
	placementPattern   = regexp.MustCompile(`Placering:\s*(\d+)`)
	totalPointsPattern = regexp.MustCompile(`Totalpoäng:\s*(\d+)`)
	pointsPattern      = regexp.MustCompile(`Poäng:\s*(\d+)`)
	totalFaultsPattern = regexp.MustCompile(`Totalfel:\s*(\d+)`)
	faultsPattern      = regexp.MustCompile(`Fel:\s*(\d+)`)
	totalTimePattern   = regexp.MustCompile(`Totaltid:\s*([\d:,]+)`)
	timePattern        = regexp.MustCompile(`Tid:\s*([\d:,]+)`)
	startPattern       = regexp.MustCompile(`Startnr:\s*(\d+)`)
	handlerPattern     = regexp.MustCompile(`Förare:\s*([^\n\r]+)`)
	dogNamePattern     = regexp.MustCompile(`Hund:\s*([^\n\r]+)`)
	breedPattern       = regexp.MustCompile(`Ras:\s*([^\n\r]+)`)
)

// extractParticipants reads the rows of the first results list on the page
func extractParticipants(doc *goquery.Document) []competition.Participant {
	rows := make([]competition.Participant, 0)

	list := doc.Find("ul").First()
	if list.Length() == 0 {
		return rows
	}

	list.Find("li").Each(func(i int, item *goquery.Selection) {
		rows = append(rows, parseParticipant(item))
	})
	return rows
}

// parseParticipant scans one list item's text with the optional field
// extractors
func parseParticipant(item *goquery.Selection) competition.Participant {
	var p competition.Participant
	text := item.Text()

	if m := placementPattern.FindStringSubmatch(text); m != nil {
		p.Placement = intPtr(m[1])
	}

	// The dog's call name sits in a bolded "Handler & Dog" span; the first
	// such span that is not a label row carries it.
	item.Find("strong").EachWithBreak(func(i int, strong *goquery.Selection) bool {
		bold := strings.TrimSpace(strong.Text())
		if !strings.Contains(bold, "&") ||
			strings.Contains(bold, "Placering") ||
			strings.Contains(bold, "Totalpoäng") {
			return true
		}
		if _, dog, found := strings.Cut(bold, " & "); found {
			p.DogCallName = strings.TrimSpace(dog)
		}
		return false
	})

	if m := totalPointsPattern.FindStringSubmatch(text); m != nil {
		p.Points = intPtr(m[1])
	} else if m := pointsPattern.FindStringSubmatch(text); m != nil {
		p.Points = intPtr(m[1])
	}

	if m := totalFaultsPattern.FindStringSubmatch(text); m != nil {
		p.Faults = intPtr(m[1])
	} else if m := faultsPattern.FindStringSubmatch(text); m != nil {
		p.Faults = intPtr(m[1])
	}

	if m := totalTimePattern.FindStringSubmatch(text); m != nil {
		p.Time = strings.TrimSpace(m[1])
	} else if m := timePattern.FindStringSubmatch(text); m != nil {
		p.Time = strings.TrimSpace(m[1])
	}

	if m := startPattern.FindStringSubmatch(text); m != nil {
		p.StartNumber = intPtr(m[1])
	}
	if m := handlerPattern.FindStringSubmatch(text); m != nil {
		p.Handler = strings.TrimSpace(m[1])
	}
	if m := dogNamePattern.FindStringSubmatch(text); m != nil {
		p.DogFullName = strings.TrimSpace(m[1])
	}
	if m := breedPattern.FindStringSubmatch(text); m != nil {
		p.DogBreed = strings.TrimSpace(m[1])
	}

	return p
}

func intPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
