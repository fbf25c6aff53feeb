package spotify

// ExternalURLs carries the public links Spotify exposes for an object.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Show is a podcast as returned by GET /shows/{id} and embedded in full
// episode objects.
type Show struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Publisher       string       `json:"publisher"`
	Description     string       `json:"description"`
	HTMLDescription string       `json:"html_description"`
	TotalEpisodes   int          `json:"total_episodes"`
	Languages       []string     `json:"languages"`
	MediaType       string       `json:"media_type"`
	Explicit        bool         `json:"explicit"`
	URI             string       `json:"uri"`
	ExternalURLs    ExternalURLs `json:"external_urls"`
}

// Episode is a single podcast episode. Show is populated on /episodes/{id}
// and /me/episodes responses but omitted from search results.
type Episode struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	HTMLDescription string       `json:"html_description"`
	ReleaseDate     string       `json:"release_date"`
	DurationMS      int64        `json:"duration_ms"`
	Language        string       `json:"language"`
	Languages       []string     `json:"languages"`
	Explicit        bool         `json:"explicit"`
	Type            string       `json:"type"`
	URI             string       `json:"uri"`
	AudioPreviewURL string       `json:"audio_preview_url"`
	ExternalURLs    ExternalURLs `json:"external_urls"`
	Show            *Show        `json:"show,omitempty"`
}

// SavedEpisode pairs an episode with the moment it entered the library.
// AddedAt is the API's ISO 8601 timestamp, kept verbatim.
type SavedEpisode struct {
	AddedAt string  `json:"added_at"`
	Episode Episode `json:"episode"`
}

// SavedEpisodePage is one page of GET /me/episodes.
type SavedEpisodePage struct {
	Href     string         `json:"href"`
	Items    []SavedEpisode `json:"items"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Total    int            `json:"total"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
}

// HasMore reports whether another page follows this one.
func (p *SavedEpisodePage) HasMore() bool {
	return p != nil && p.Next != nil
}

// EpisodePage is the episode half of a search response. Items are
// simplified episode objects without the embedded show.
type EpisodePage struct {
	Href   string    `json:"href"`
	Items  []Episode `json:"items"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Total  int       `json:"total"`
	Next   *string   `json:"next"`
}

// ShowPage is the show half of a search response.
type ShowPage struct {
	Href   string  `json:"href"`
	Items  []Show  `json:"items"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
	Next   *string `json:"next"`
}

// SearchResult groups the per-type pages of a catalog search. Only the
// requested types are present.
type SearchResult struct {
	Episodes *EpisodePage `json:"episodes,omitempty"`
	Shows    *ShowPage    `json:"shows,omitempty"`
}
