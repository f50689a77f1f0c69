package tags

import (
	"fmt"
	"strconv"

	"go.senan.xyz/taglib"
)

// writeTaglibTags is the generic writer for formats without a dedicated
// writer (raw AAC streams).
func writeTaglibTags(path string, t *Tag) error {
	raw := map[string][]string{
		taglib.Title:  {t.Title},
		taglib.Artist: {t.Artist},
		taglib.Album:  {t.Album},
	}
	if t.AlbumArtist != "" {
		raw[taglib.AlbumArtist] = []string{t.AlbumArtist}
	}
	if t.Genre != "" {
		raw[taglib.Genre] = []string{t.Genre}
	}
	if t.Year > 0 {
		raw[taglib.Date] = []string{strconv.Itoa(t.Year)}
	}
	if t.TrackNumber > 0 {
		raw[taglib.TrackNumber] = []string{strconv.Itoa(t.TrackNumber)}
	}

	if err := taglib.WriteTags(path, raw, taglib.Clear); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
