package musicbrainz

import "strings"

// Recording is one search result: a recording together with the
// release it appears on, which is what the tag editor offers the user.
type Recording struct {
	ID        string
	Title     string
	Artist    string
	Album     string
	Year      int
	ReleaseID string // MBID used against the Cover Art Archive
	Score     int
}

// Raw API response shapes.

type recordingSearchResponse struct {
	Recordings []recordingResult `json:"recordings"`
}

type recordingResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []releaseRef   `json:"releases"`
}

type artistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
	Artist     struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type releaseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// extractArtist joins artist credits the way MusicBrainz renders them.
func extractArtist(credits []artistCredit) string {
	if len(credits) == 0 {
		return ""
	}
	parts := make([]string, 0, len(credits))
	for _, c := range credits {
		name := c.Name
		if name == "" {
			name = c.Artist.Name
		}
		parts = append(parts, name+c.JoinPhrase)
	}
	return strings.Join(parts, "")
}
