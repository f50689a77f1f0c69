package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Extract reads a best-effort metadata bundle for a music file. It never
// fails: the worst case is filename-derived defaults with a zero duration.
//
// Extraction is layered, each stage filling only fields still at default:
//  1. audio stream probe (duration, sample rate, channels, codec label)
//  2. normalized common tags (dhowden/tag)
//  3. format-native frames/atoms, which take priority over common tags
//     for title/artist/album/artwork
//  4. filename heuristics when the title is still the bare stem
func Extract(path string) *Tag {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	t := &Tag{
		Path:   path,
		Title:  stem,
		Artist: UnknownArtist,
		Album:  UnknownAlbum,
	}

	if audio, err := ReadAudioInfo(path); err == nil {
		t.AudioInfo = *audio
	}

	readCommonTags(path, t)

	switch lowerExt(path) {
	case ExtMP3:
		readMP3NativeTags(path, t)
	case ExtFLAC:
		readFLACNativeTags(path, t)
	default:
		readNativeTags(path, t)
	}

	// No embedded picture in any tag source: look for a cover image
	// next to the file.
	if len(t.Artwork) == 0 {
		if data, mime := findFolderArt(filepath.Dir(path)); data != nil {
			t.Artwork = data
			t.ArtworkMIME = mime
		}
	}

	// Title untouched by any tag source: fall back to filename heuristics.
	if t.Title == stem {
		title, artist := ParseFilename(stem)
		t.Title = title
		if artist != "" && t.Artist == UnknownArtist {
			t.Artist = artist
		}
	}

	return t
}

// readCommonTags applies the normalized tag set from dhowden/tag.
// Failures are silent; the caller's defaults survive.
func readCommonTags(path string, t *Tag) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return
	}

	if v := m.Title(); v != "" {
		t.Title = v
	}
	if v := m.Artist(); v != "" {
		t.Artist = v
	}
	if v := m.Album(); v != "" {
		t.Album = v
	}
	if v := m.AlbumArtist(); v != "" {
		t.AlbumArtist = v
	}
	if v := m.Composer(); v != "" {
		t.Composer = v
	}
	if v := m.Genre(); v != "" {
		t.Genre = v
	}
	if v := m.Comment(); v != "" {
		t.Comment = v
	}
	if v := m.Year(); v > 0 {
		t.Year = v
	}

	track, totalTracks := m.Track()
	if track > 0 {
		t.TrackNumber = track
	}
	if totalTracks > 0 {
		t.TotalTracks = totalTracks
	}
	disc, totalDiscs := m.Disc()
	if disc > 0 {
		t.DiscNumber = disc
	}
	if totalDiscs > 0 {
		t.TotalDiscs = totalDiscs
	}

	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		t.Artwork = pic.Data
		t.ArtworkMIME = pic.MIMEType
	}
}
