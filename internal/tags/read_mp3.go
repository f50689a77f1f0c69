package tags

import (
	"github.com/bogem/id3v2/v2"
)

// readMP3NativeTags reads ID3v2 frames directly. Native frames take priority
// over the common tag set for title/artist/album/artwork, since some taggers
// only keep the frames current.
func readMP3NativeTags(path string, t *Tag) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3tag.Close()

	if v := id3tag.Title(); v != "" {
		t.Title = v
	}
	if v := id3tag.Artist(); v != "" {
		t.Artist = v
	}
	if v := id3tag.Album(); v != "" {
		t.Album = v
	}
	if v := id3tag.Genre(); v != "" {
		t.Genre = v
	}

	if v := getID3TextFrame(id3tag, "TPE2"); v != "" { // album artist
		t.AlbumArtist = v
	}
	if v := getID3TextFrame(id3tag, "TCOM"); v != "" {
		t.Composer = v
	}
	if v := getID3TextFrame(id3tag, "TCOP"); v != "" {
		t.Copyright = v
	}
	if v := getID3TextFrame(id3tag, "TSSE"); v != "" {
		t.Encoder = v
	}

	// Recording date: ID3v2.4 TDRC, then ID3v2.3 TYER
	date := getID3TextFrame(id3tag, "TDRC")
	if date == "" {
		date = getID3TextFrame(id3tag, "TYER")
	}
	if y := parseYear(date); y > 0 {
		t.Year = y
	}

	if num, total := parseNumberPair(getID3TextFrame(id3tag, "TRCK")); num > 0 {
		t.TrackNumber = num
		if total > 0 {
			t.TotalTracks = total
		}
	}
	if num, total := parseNumberPair(getID3TextFrame(id3tag, "TPOS")); num > 0 {
		t.DiscNumber = num
		if total > 0 {
			t.TotalDiscs = total
		}
	}

	if bpm := getID3TextFrame(id3tag, "TBPM"); bpm != "" {
		if num, _ := parseNumberPair(bpm); num > 0 {
			t.BPM = num
		}
	}

	// Attached picture frame wins over the common picture
	if frames := id3tag.GetFrames(id3tag.CommonID("Attached picture")); len(frames) > 0 {
		if pic, ok := frames[0].(id3v2.PictureFrame); ok && len(pic.Picture) > 0 {
			t.Artwork = pic.Picture
			t.ArtworkMIME = pic.MimeType
		}
	}
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
