package competition

import "strings"

// Competition is one event link discovered on the results portal. These
// records are ephemeral: they live for a single run and are never persisted
// on their own.
type Competition struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Year int    `json:"year"`
	Type string `json:"type"`
}

// Subpage is one child result page of a competition. The portal embeds these
// links in button onclick handlers rather than anchor tags, so the raw
// handler expression and button id are kept for debugging.
type Subpage struct {
	URL      string `json:"url"`
	Label    string `json:"type"`
	ButtonID string `json:"button_id"`
	OnClick  string `json:"onclick"`
}

// Subpages groups a competition's child result pages together with the
// listing text the portal showed for it. An empty Subpages list is valid:
// some competition classes expose no sub-results and produce no Result.
// Error is set when subpage extraction failed for this competition; the
// failure travels as data so the run can continue.
type Subpages struct {
	MainURL      string    `json:"main_url"`
	Subpages     []Subpage `json:"subpages"`
	OriginalText string    `json:"original_text"`
	Year         int       `json:"year"`
	Type         string    `json:"type"`
	Error        string    `json:"error,omitempty"`
}

// Result is one competition's parsed results. The metadata fields default to
// empty strings and are always serialized; the dashboard relies on the keys
// being present.
type Result struct {
	URL         string   `json:"url"`
	Date        string   `json:"datum"`
	Location    string   `json:"plats"`
	Type        string   `json:"typ"`
	Class       string   `json:"klass"`
	Organizer   string   `json:"arrangör"`
	Coordinator string   `json:"anordnare"`
	Searches    []Search `json:"resultat"`
}

// Search holds one subpage's results: the discipline it covers, the judges,
// and the participant table.
type Search struct {
	Discipline   string        `json:"sök,omitempty"`
	Judges       []string      `json:"domare,omitempty"`
	Participants []Participant `json:"tabell"`
}

// Participant is one row of a results table. Every field is optional because
// the source markup is inconsistent; an absent field is not an error. Time is
// kept as the literal page text ("mm:ss" or "hh:mm:ss" with ',' or '.' before
// sub-seconds), unit conversion belongs downstream.
type Participant struct {
	Placement   *int   `json:"placement,omitempty"`
	DogCallName string `json:"dog_call_name,omitempty"`
	Points      *int   `json:"points,omitempty"`
	Faults      *int   `json:"faults,omitempty"`
	Time        string `json:"time,omitempty"`
	StartNumber *int   `json:"start_number,omitempty"`
	Handler     string `json:"handler,omitempty"`
	DogFullName string `json:"dog_full_name,omitempty"`
	DogBreed    string `json:"dog_breed,omitempty"`
}

// ArrID extracts the arr= query value that identifies a competition, or ""
// when the URL carries no arr parameter. The value is compared by exact
// string equality, no encoding or case normalization.
func ArrID(url string) string {
	_, after, found := strings.Cut(url, "arr=")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}

// SameArr reports whether two URLs denote the same competition. URLs without
// an arr parameter never match anything, including each other.
func SameArr(a, b string) bool {
	idA := ArrID(a)
	idB := ArrID(b)
	return idA != "" && idB != "" && idA == idB
}
