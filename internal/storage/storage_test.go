package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokenilsson/snwk-stats/internal/competition"
)

func intPtr(n int) *int { return &n }

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	records := []competition.Result{
		{
			URL:         "https://www.snwktavling.se/?page=showres&arr=111&tab=total",
			Date:        "2024-05-12",
			Location:    "Uppsala",
			Type:        "TEM",
			Class:       "NW1",
			Organizer:   "Uppsala BK",
			Coordinator: "SNWK Mitt",
			Searches: []competition.Search{
				{
					Discipline: "total",
					Judges:     []string{"Anna Andersson"},
					Participants: []competition.Participant{
						{
							Placement:   intPtr(1),
							DogCallName: "Ziggy",
							Points:      intPtr(100),
							Faults:      intPtr(0),
							Time:        "02:31,45",
							StartNumber: intPtr(7),
							Handler:     "Anna Andersson",
							DogFullName: "Kennelnamnets Ziggy Stardust",
							DogBreed:    "Border Collie",
						},
						{},
					},
				},
			},
		},
		{
			// Metadata extraction can legitimately leave everything empty
			URL:      "https://www.snwktavling.se/?page=showres&arr=222",
			Searches: []competition.Search{},
		},
	}

	path, err := store.Save(records, "snwk_competition_results")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`snwk_competition_results_\d{8}_\d{6}\.json$`), path)

	loaded, err := store.LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSaveEmptyStringsSerialized(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save([]competition.Result{{URL: "https://x/?arr=1"}}, "snwk_competition_results")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The dashboard relies on the metadata keys being present as "" rather
	// than null or missing
	content := string(data)
	assert.Contains(t, content, `"datum": ""`)
	assert.Contains(t, content, `"plats": ""`)
	assert.Contains(t, content, `"arrangör": ""`)
	assert.Contains(t, content, `"anordnare": ""`)
	assert.NotContains(t, content, "null")
}

func TestSaveKeepsAmpersandsUnescaped(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save([]competition.Result{{URL: "https://x/?arr=1", Location: "Hund & Katt"}}, "snwk_competition_results")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hund & Katt")
	assert.NotContains(t, string(data), `\u0026`)
}

func TestSaveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	_, err = store.Save([]competition.Subpages{}, "snwk_new_subpages")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.DataDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
