package tags

import (
	"strings"

	goflac "github.com/go-flac/go-flac"
)

// readFLACNativeTags reads Vorbis comments from a FLAC file's metadata blocks.
// Native comments take priority over the common tag set.
func readFLACNativeTags(path string, t *Tag) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}

	var comments map[string]string
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			comments = parseVorbisComments(meta.Data)
			break
		}
	}
	if comments == nil {
		return
	}

	if v := comments["TITLE"]; v != "" {
		t.Title = v
	}
	if v := comments["ARTIST"]; v != "" {
		t.Artist = v
	}
	if v := comments["ALBUM"]; v != "" {
		t.Album = v
	}
	if v := comments["ALBUMARTIST"]; v != "" {
		t.AlbumArtist = v
	}
	if v := comments["COMPOSER"]; v != "" {
		t.Composer = v
	}
	if v := comments["COPYRIGHT"]; v != "" {
		t.Copyright = v
	}
	if v := comments["GENRE"]; v != "" {
		t.Genre = v
	}
	if v := comments["ENCODER"]; v != "" {
		t.Encoder = v
	}

	date := comments["DATE"]
	if date == "" {
		date = comments["YEAR"]
	}
	if y := parseYear(date); y > 0 {
		t.Year = y
	}

	if num, total := parseNumberPair(comments["TRACKNUMBER"]); num > 0 {
		t.TrackNumber = num
		if total > 0 {
			t.TotalTracks = total
		}
	}
	if n := parseYear(comments["TOTALTRACKS"]); n > 0 && t.TotalTracks == 0 {
		t.TotalTracks = n
	}
	if num, total := parseNumberPair(comments["DISCNUMBER"]); num > 0 {
		t.DiscNumber = num
		if total > 0 {
			t.TotalDiscs = total
		}
	}
	if n := parseYear(comments["TOTALDISCS"]); n > 0 && t.TotalDiscs == 0 {
		t.TotalDiscs = n
	}
	if num, _ := parseNumberPair(comments["BPM"]); num > 0 {
		t.BPM = num
	}
}

// parseVorbisComments parses raw Vorbis comment data into a map.
func parseVorbisComments(data []byte) map[string]string {
	comments := make(map[string]string)

	if len(data) < 4 {
		return comments
	}

	// Skip vendor string
	vendorLen := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	pos := 4 + vendorLen
	if pos < 0 || pos+4 > len(data) {
		return comments
	}

	commentCount := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
	pos += 4

	for i := 0; i < commentCount && pos+4 <= len(data); i++ {
		commentLen := int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16 | int(data[pos+3])<<24
		pos += 4

		if commentLen < 0 || pos+commentLen > len(data) {
			break
		}

		comment := string(data[pos : pos+commentLen])
		pos += commentLen

		if idx := strings.Index(comment, "="); idx > 0 {
			key := strings.ToUpper(comment[:idx])
			comments[key] = comment[idx+1:]
		}
	}

	return comments
}
