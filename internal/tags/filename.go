package tags

import (
	"regexp"
	"strings"
)

// trackPrefixRe matches a leading track-number prefix: 1-3 digits followed by
// an optional '.', '-', or whitespace run ("01 - ", "2.", "003 ").
var trackPrefixRe = regexp.MustCompile(`^\d{1,3}[.\-\s]*\s*`)

// ParseFilename guesses (title, artist) from a filename stem.
// The artist guess is empty when the stem carries no " - " separator.
func ParseFilename(stem string) (title, artist string) {
	cleaned := trackPrefixRe.ReplaceAllString(stem, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = stem
	}

	if idx := strings.Index(cleaned, " - "); idx >= 0 {
		artist = strings.TrimSpace(cleaned[:idx])
		title = strings.TrimSpace(cleaned[idx+3:])
		if title == "" {
			title = cleaned
			artist = ""
		}
		return title, artist
	}

	return cleaned, ""
}
