package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lokenilsson/snwk-stats/internal/competition"
	"github.com/lokenilsson/snwk-stats/internal/logger"
)

// ResultsGlob matches the results snapshot files written by previous runs.
const ResultsGlob = "snwk_competition_results_*.json"

// KnownURLs scans all persisted results snapshots in dataDir and returns the
// set of competition URLs collected so far. Unreadable or malformed snapshot
// files are logged and skipped; a missing data directory just yields an
// empty set.
func KnownURLs(dataDir string) map[string]bool {
	known := make(map[string]bool)

	paths, err := filepath.Glob(filepath.Join(dataDir, ResultsGlob))
	if err != nil {
		logger.Warn("bad results glob", logger.Fields{"data_dir": dataDir})
		return known
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable results snapshot", logger.Fields{
				"path": path,
			})
			continue
		}

		var records []struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(data, &records); err != nil {
			logger.Warn("skipping malformed results snapshot", logger.Fields{
				"path": path,
			})
			continue
		}

		for _, rec := range records {
			if rec.URL != "" {
				known[rec.URL] = true
			}
		}
	}

	logger.Info("loaded existing competition urls", logger.Fields{
		"count": len(known),
	})
	return known
}

// SelectNew returns the candidates that have not been collected yet. A
// candidate is excluded only when some known URL shares its arr= identity;
// everything else, including candidates without an arr= parameter, is new.
func SelectNew(candidates []competition.Competition, known map[string]bool) []competition.Competition {
	fresh := make([]competition.Competition, 0)

	for _, cand := range candidates {
		if collected(cand.URL, known) {
			continue
		}
		fresh = append(fresh, cand)
	}

	logger.Info("selected new competitions", logger.Fields{
		"candidates": len(candidates),
		"new":        len(fresh),
	})
	return fresh
}

func collected(url string, known map[string]bool) bool {
	for knownURL := range known {
		if competition.SameArr(url, knownURL) {
			return true
		}
	}
	return false
}
