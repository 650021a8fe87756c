package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokenilsson/snwk-stats/internal/competition"
)

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestKnownURLs(t *testing.T) {
	dir := t.TempDir()

	writeSnapshot(t, dir, "snwk_competition_results_20240101_120000.json",
		`[{"url": "https://www.snwktavling.se/?page=showres&arr=111&tab=total"}]`)
	writeSnapshot(t, dir, "snwk_competition_results_20240201_120000.json",
		`[{"url": "https://www.snwktavling.se/?page=showres&arr=222"}, {"url": ""}]`)
	// Other snapshot kinds are not part of the known-identity store
	writeSnapshot(t, dir, "snwk_new_subpages_20240101_120000.json",
		`[{"main_url": "https://www.snwktavling.se/?page=showres&arr=999"}]`)

	known := KnownURLs(dir)
	assert.Len(t, known, 2)
	assert.True(t, known["https://www.snwktavling.se/?page=showres&arr=111&tab=total"])
	assert.True(t, known["https://www.snwktavling.se/?page=showres&arr=222"])
}

func TestKnownURLsSkipsMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()

	writeSnapshot(t, dir, "snwk_competition_results_20240101_120000.json", `not json`)
	writeSnapshot(t, dir, "snwk_competition_results_20240201_120000.json",
		`[{"url": "https://www.snwktavling.se/?arr=5"}]`)

	known := KnownURLs(dir)
	assert.Len(t, known, 1)
}

func TestKnownURLsMissingDir(t *testing.T) {
	known := KnownURLs(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, known)
}

func TestSelectNew(t *testing.T) {
	known := map[string]bool{
		"https://www.snwktavling.se/?page=showres&arr=111&tab=total": true,
	}

	candidates := []competition.Competition{
		// Same arr identity despite different extra parameters
		{URL: "https://www.snwktavling.se/?page=showres&arr=111&klass=NW1"},
		{URL: "https://www.snwktavling.se/?page=showres&arr=222"},
		// No arr parameter: always new, never matched
		{URL: "https://www.snwktavling.se/?page=showres"},
	}

	fresh := SelectNew(candidates, known)
	require.Len(t, fresh, 2)
	assert.Equal(t, "https://www.snwktavling.se/?page=showres&arr=222", fresh[0].URL)
	assert.Equal(t, "https://www.snwktavling.se/?page=showres", fresh[1].URL)
}

func TestSelectNewNoArrInStore(t *testing.T) {
	// A stored URL without arr= can never exclude anything
	known := map[string]bool{"https://www.snwktavling.se/?page=showres": true}

	candidates := []competition.Competition{
		{URL: "https://www.snwktavling.se/?page=showres"},
		{URL: "https://www.snwktavling.se/?page=showres&arr=1"},
	}

	fresh := SelectNew(candidates, known)
	assert.Len(t, fresh, 2)
}

func TestSelectNewEmptyStore(t *testing.T) {
	candidates := []competition.Competition{
		{URL: "https://www.snwktavling.se/?arr=1"},
	}
	fresh := SelectNew(candidates, map[string]bool{})
	assert.Len(t, fresh, 1)
}
