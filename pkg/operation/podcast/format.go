package podcast

import (
	"fmt"
	"strings"
	"time"

	"github.com/podcast-tools/spotify-mcp/pkg/spotify"
)

// descriptionPreviewLimit caps episode descriptions in list views.
const descriptionPreviewLimit = 150

// renderSavedEpisodes formats one library page as a numbered markdown list
// with a paging footer.
func renderSavedEpisodes(page *spotify.SavedEpisodePage) string {
	lines := []string{"# Your Saved Episodes\n"}

	for i, item := range page.Items {
		lines = append(lines, episodeItemLines(page.Offset+i+1, item)...)
		lines = append(lines, "")
	}

	from, to := page.Offset+1, page.Offset+len(page.Items)
	footer := fmt.Sprintf("\n*Showing episodes %d-%d of %d*", from, to, page.Total)
	if page.HasMore() {
		footer = fmt.Sprintf("\n*Showing episodes %d-%d of %d (more available)*", from, to, page.Total)
	}
	lines = append(lines, footer)

	return strings.Join(lines, "\n")
}

// renderSearchResults formats library search matches, numbered from one.
func renderSearchResults(matches []spotify.SavedEpisode, query string) string {
	if len(matches) == 0 {
		return fmt.Sprintf("# Search Results\n\nNo episodes found matching '%s'", query)
	}

	lines := []string{
		fmt.Sprintf("# Search Results for '%s'\n", query),
		fmt.Sprintf("Found %d matching episodes\n", len(matches)),
	}

	for i, item := range matches {
		lines = append(lines, episodeItemLines(i+1, item)...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// episodeItemLines renders one numbered library entry.
func episodeItemLines(num int, item spotify.SavedEpisode) []string {
	episode := item.Episode

	var showName string
	if episode.Show != nil {
		showName = episode.Show.Name
	}

	lines := []string{
		fmt.Sprintf("%d. **%s**", num, episode.Name),
		"   Show: " + showName,
		"   Released: " + humanDate(episode.ReleaseDate),
		"   Added: " + humanDate(item.AddedAt),
		"   Duration: " + listDuration(episode.DurationMS),
	}
	if episode.Description != "" {
		lines = append(lines, "   "+preview(episode.Description))
	}
	return lines
}

// renderEpisode formats one episode as a markdown detail page.
func renderEpisode(episode *spotify.Episode) string {
	showName, publisher := "N/A", "N/A"
	if episode.Show != nil {
		showName = episode.Show.Name
		publisher = episode.Show.Publisher
	}
	language := episode.Language
	if language == "" {
		language = "N/A"
	}
	kind := episode.Type
	if kind == "" {
		kind = "episode"
	}

	lines := []string{
		fmt.Sprintf("# %s\n", episode.Name),
		"**Show**: " + showName,
		"**Publisher**: " + publisher,
		"**Released**: " + humanDate(episode.ReleaseDate),
		"**Duration**: " + detailDuration(episode.DurationMS),
		"**Language**: " + language,
		"**Explicit**: " + yesNo(episode.Explicit),
		"**Type**: " + kind,
		"",
	}

	if episode.Description != "" {
		lines = append(lines, "## Description\n", episode.Description, "")
	}

	lines = append(lines, "## Links\n")
	if episode.ExternalURLs.Spotify != "" {
		lines = append(lines, "Spotify: "+episode.ExternalURLs.Spotify)
	}
	lines = append(lines, "URI: "+episode.URI, "ID: "+episode.ID)

	return strings.Join(lines, "\n")
}

// renderShow formats one show as a markdown detail page.
func renderShow(show *spotify.Show) string {
	language := "N/A"
	if len(show.Languages) > 0 {
		language = show.Languages[0]
	}
	mediaType := show.MediaType
	if mediaType == "" {
		mediaType = "audio"
	}

	lines := []string{
		fmt.Sprintf("# %s\n", show.Name),
		"**Publisher**: " + show.Publisher,
		fmt.Sprintf("**Total Episodes**: %d", show.TotalEpisodes),
		"**Language**: " + language,
		"**Explicit**: " + yesNo(show.Explicit),
		"**Media Type**: " + mediaType,
		"",
	}

	if show.Description != "" {
		lines = append(lines, "## Description\n", show.Description, "")
	}

	lines = append(lines, "## Links\n")
	if show.ExternalURLs.Spotify != "" {
		lines = append(lines, "Spotify: "+show.ExternalURLs.Spotify)
	}
	lines = append(lines, "URI: "+show.URI, "ID: "+show.ID)

	return strings.Join(lines, "\n")
}

// humanDate renders an API date, either "2006-01-02" or full RFC 3339, the
// way a person would write it. Unparseable values pass through untouched.
func humanDate(value string) string {
	layout := "2006-01-02"
	if strings.Contains(value, "T") {
		layout = time.RFC3339
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return value
	}
	return t.Format("January 02, 2006")
}

// listDuration renders a duration compactly for list entries: "3:05" under
// an hour, "1h 2m" past it.
func listDuration(ms int64) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// detailDuration spells a duration out for detail pages: "45m 30s", or
// "1h 30m 0s" past the hour.
func detailDuration(ms int64) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm %ds", minutes/60, minutes%60, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// preview truncates long descriptions to keep list entries scannable.
func preview(description string) string {
	runes := []rune(description)
	if len(runes) <= descriptionPreviewLimit {
		return description
	}
	return string(runes[:descriptionPreviewLimit-3]) + "..."
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
