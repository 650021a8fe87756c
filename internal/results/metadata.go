package results

import (
	"regexp"
	"strings"

	"github.com/lokenilsson/snwk-stats/internal/competition"
)

// Competition metadata comes from the listing's free-text label, tokenized
// on whitespace. The positions are mostly stable but not reliable, so each
// field is extracted by an ordered rule list: the first rule that produces a
// value wins, and every rule validates its token against a whitelist so a
// stray "-" or marker word never lands in the wrong field.

// metadataRule is one named attempt at extracting a field from the label
// tokens.
type metadataRule struct {
	name    string
	extract func(tokens []string) (string, bool)
}

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	looseDatePattern = regexp.MustCompile(`^\d{2,4}[-/]\d{1,2}[-/]\d{2,4}`)
	classPattern     = regexp.MustCompile(`^(NW[123]|ELIT)$`)
)

// notLocation lists tokens that can follow the date slot but are never a
// location.
var notLocation = map[string]bool{
	"TEM":        true,
	"TSM":        true,
	"NW1":        true,
	"NW2":        true,
	"NW3":        true,
	"ELIT":       true,
	"Arrangör:":  true,
	"Anordnare:": true,
}

var dateRules = []metadataRule{
	{"first iso date token", func(tokens []string) (string, bool) {
		for _, tok := range tokens {
			if isoDatePattern.MatchString(tok) {
				return tok, true
			}
		}
		return "", false
	}},
	{"date-like leading token", func(tokens []string) (string, bool) {
		if looseDatePattern.MatchString(tokens[0]) {
			return tokens[0], true
		}
		return "", false
	}},
}

var locationRules = []metadataRule{
	{"second token unless keyword", func(tokens []string) (string, bool) {
		if len(tokens) > 1 && !notLocation[tokens[1]] {
			return tokens[1], true
		}
		return "", false
	}},
}

var typeRules = []metadataRule{
	{"first TEM/TSM token", func(tokens []string) (string, bool) {
		for _, tok := range tokens {
			if tok == "TEM" || tok == "TSM" {
				return tok, true
			}
		}
		return "", false
	}},
	{"validated fourth token", func(tokens []string) (string, bool) {
		if len(tokens) > 3 {
			switch tokens[3] {
			case "TEM", "TSM", "Utomhus", "Inomhus":
				return tokens[3], true
			}
		}
		return "", false
	}},
}

var classRules = []metadataRule{
	{"first class token", func(tokens []string) (string, bool) {
		for _, tok := range tokens {
			if classPattern.MatchString(tok) {
				return tok, true
			}
		}
		return "", false
	}},
	{"validated sixth token", func(tokens []string) (string, bool) {
		if len(tokens) > 5 && classPattern.MatchString(tokens[5]) {
			return tokens[5], true
		}
		return "", false
	}},
}

var organizerRules = []metadataRule{
	{"between Arrangör: and Anordnare:", func(tokens []string) (string, bool) {
		start := indexOf(tokens, "Arrangör:")
		end := indexOf(tokens, "Anordnare:")
		if start < 0 || end < 0 {
			return "", false
		}
		if end < start+1 {
			return "", true
		}
		return strings.Join(tokens[start+1:end], " "), true
	}},
	{"five tokens after Arrangör:", func(tokens []string) (string, bool) {
		start := indexOf(tokens, "Arrangör:")
		if start < 0 {
			return "", false
		}
		end := start + 1 + 5
		if end > len(tokens) {
			end = len(tokens)
		}
		return strings.Join(tokens[start+1:end], " "), true
	}},
}

var coordinatorRules = []metadataRule{
	{"tokens after Anordnare:", func(tokens []string) (string, bool) {
		start := indexOf(tokens, "Anordnare:")
		if start < 0 {
			return "", false
		}
		return strings.Join(tokens[start+1:], " "), true
	}},
}

// applyMetadata fills the metadata fields of res from the listing label.
// Fields whose rules all miss keep their empty-string defaults; metadata
// extraction never aborts a parse.
func applyMetadata(res *competition.Result, label string) {
	tokens := strings.Fields(label)
	if len(tokens) == 0 {
		return
	}

	res.Date = firstMatch(dateRules, tokens)
	res.Location = firstMatch(locationRules, tokens)
	res.Type = firstMatch(typeRules, tokens)
	res.Class = firstMatch(classRules, tokens)
	res.Organizer = firstMatch(organizerRules, tokens)
	res.Coordinator = firstMatch(coordinatorRules, tokens)
}

func firstMatch(rules []metadataRule, tokens []string) string {
	for _, rule := range rules {
		if value, ok := rule.extract(tokens); ok {
			return value
		}
	}
	return ""
}

func indexOf(tokens []string, want string) int {
	for i, tok := range tokens {
		if tok == want {
			return i
		}
	}
	return -1
}
