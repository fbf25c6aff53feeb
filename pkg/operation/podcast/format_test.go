package podcast

import (
	"strings"
	"testing"

	"github.com/podcast-tools/spotify-mcp/pkg/spotify"
)

func TestHumanDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "date only", value: "2024-02-28", want: "February 28, 2024"},
		{name: "full timestamp", value: "2024-03-01T10:00:00Z", want: "March 01, 2024"},
		{name: "unparseable passes through", value: "sometime soon", want: "sometime soon"},
		{name: "empty passes through", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := humanDate(tt.value); got != tt.want {
				t.Errorf("humanDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestListDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 185000, want: "3:05"},
		{ms: 59000, want: "0:59"},
		{ms: 3599000, want: "59:59"},
		{ms: 3600000, want: "1h 0m"},
		{ms: 3723000, want: "1h 2m"},
	}

	for _, tt := range tests {
		if got := listDuration(tt.ms); got != tt.want {
			t.Errorf("listDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestDetailDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 2730000, want: "45m 30s"},
		{ms: 5400000, want: "1h 30m 0s"},
		{ms: 45000, want: "0m 45s"},
	}

	for _, tt := range tests {
		if got := detailDuration(tt.ms); got != tt.want {
			t.Errorf("detailDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	short := "a short description"
	if got := preview(short); got != short {
		t.Errorf("preview() changed a short description: %q", got)
	}

	long := strings.Repeat("x", 200)
	got := preview(long)
	if len([]rune(got)) != descriptionPreviewLimit {
		t.Errorf("preview() length = %d runes, want %d", len([]rune(got)), descriptionPreviewLimit)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("preview() = %q, want a ... suffix", got)
	}

	// Multibyte text must be cut on rune boundaries.
	unicode := strings.Repeat("ü", 200)
	got = preview(unicode)
	if !strings.HasPrefix(got, strings.Repeat("ü", 147)) || !strings.HasSuffix(got, "...") {
		t.Errorf("preview() broke a multibyte description: %q", got)
	}
}

func savedPageFixture() *spotify.SavedEpisodePage {
	next := "https://api.spotify.com/v1/me/episodes?offset=12&limit=2"
	return &spotify.SavedEpisodePage{
		Items: []spotify.SavedEpisode{
			{
				AddedAt: "2024-03-01T10:00:00Z",
				Episode: spotify.Episode{
					ID:          "ep1",
					Name:        "The First Episode",
					Description: "about things",
					ReleaseDate: "2024-02-28",
					DurationMS:  185000,
					Show:        &spotify.Show{ID: "sh1", Name: "A Show"},
				},
			},
			{
				AddedAt: "2024-03-02T10:00:00Z",
				Episode: spotify.Episode{
					ID:          "ep2",
					Name:        "The Second Episode",
					ReleaseDate: "2024-03-01T08:00:00Z",
					DurationMS:  3723000,
					Show:        &spotify.Show{ID: "sh1", Name: "A Show"},
				},
			},
		},
		Limit:  2,
		Offset: 10,
		Total:  42,
		Next:   &next,
	}
}

func TestRenderSavedEpisodes(t *testing.T) {
	got := renderSavedEpisodes(savedPageFixture())

	want := `# Your Saved Episodes

11. **The First Episode**
   Show: A Show
   Released: February 28, 2024
   Added: March 01, 2024
   Duration: 3:05
   about things

12. **The Second Episode**
   Show: A Show
   Released: March 01, 2024
   Added: March 02, 2024
   Duration: 1h 2m


*Showing episodes 11-12 of 42 (more available)*`

	if got != want {
		t.Errorf("renderSavedEpisodes() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderSavedEpisodes_LastPage(t *testing.T) {
	page := savedPageFixture()
	page.Next = nil

	got := renderSavedEpisodes(page)
	if strings.Contains(got, "more available") {
		t.Errorf("footer claims more episodes on the last page:\n%s", got)
	}
	if !strings.Contains(got, "*Showing episodes 11-12 of 42*") {
		t.Errorf("footer missing the plain range:\n%s", got)
	}
}

func TestRenderEpisode(t *testing.T) {
	episode := &spotify.Episode{
		ID:          "ep42",
		Name:        "Deep Dive",
		Description: "a long talk",
		ReleaseDate: "2024-01-15",
		DurationMS:  5400000,
		Language:    "en",
		Explicit:    true,
		Type:        "episode",
		URI:         "spotify:episode:ep42",
		ExternalURLs: spotify.ExternalURLs{
			Spotify: "https://open.spotify.com/episode/ep42",
		},
		Show: &spotify.Show{Name: "Deep Show", Publisher: "Depth Inc"},
	}

	want := `# Deep Dive

**Show**: Deep Show
**Publisher**: Depth Inc
**Released**: January 15, 2024
**Duration**: 1h 30m 0s
**Language**: en
**Explicit**: Yes
**Type**: episode

## Description

a long talk

## Links

Spotify: https://open.spotify.com/episode/ep42
URI: spotify:episode:ep42
ID: ep42`

	if got := renderEpisode(episode); got != want {
		t.Errorf("renderEpisode() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderEpisode_SparseFields(t *testing.T) {
	episode := &spotify.Episode{
		ID:         "ep1",
		Name:       "Bare",
		DurationMS: 45000,
		URI:        "spotify:episode:ep1",
	}

	got := renderEpisode(episode)
	for _, want := range []string{
		"**Show**: N/A",
		"**Publisher**: N/A",
		"**Language**: N/A",
		"**Explicit**: No",
		"**Type**: episode",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("renderEpisode() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Description") {
		t.Error("renderEpisode() emitted a description section for an empty description")
	}
	if strings.Contains(got, "Spotify: ") {
		t.Error("renderEpisode() emitted a Spotify link without one")
	}
}

func TestRenderShow(t *testing.T) {
	show := &spotify.Show{
		ID:            "sh9",
		Name:          "Deep Show",
		Publisher:     "Depth Inc",
		Description:   "all the depths",
		TotalEpisodes: 120,
		Languages:     []string{"en", "de"},
		MediaType:     "audio",
		URI:           "spotify:show:sh9",
		ExternalURLs: spotify.ExternalURLs{
			Spotify: "https://open.spotify.com/show/sh9",
		},
	}

	want := `# Deep Show

**Publisher**: Depth Inc
**Total Episodes**: 120
**Language**: en
**Explicit**: No
**Media Type**: audio

## Description

all the depths

## Links

Spotify: https://open.spotify.com/show/sh9
URI: spotify:show:sh9
ID: sh9`

	if got := renderShow(show); got != want {
		t.Errorf("renderShow() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderSearchResults(t *testing.T) {
	matches := savedPageFixture().Items

	got := renderSearchResults(matches, "episode")
	if !strings.Contains(got, "# Search Results for 'episode'") {
		t.Errorf("missing the result header:\n%s", got)
	}
	if !strings.Contains(got, "Found 2 matching episodes") {
		t.Errorf("missing the match count:\n%s", got)
	}
	// Search numbering restarts from one regardless of library position.
	if !strings.Contains(got, "1. **The First Episode**") {
		t.Errorf("matches not numbered from one:\n%s", got)
	}
}

func TestRenderSearchResults_Empty(t *testing.T) {
	got := renderSearchResults(nil, "nothing")

	want := "# Search Results\n\nNo episodes found matching 'nothing'"
	if got != want {
		t.Errorf("renderSearchResults(nil) = %q, want %q", got, want)
	}
}
