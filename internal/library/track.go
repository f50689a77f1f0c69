package library

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/evrardt/muse/internal/tags"
)

// Track is a single library entry. Identity is the process-local ID:
// two tracks are the same track iff their IDs match, regardless of
// metadata or path.
type Track struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Composer    string
	Genre       string
	Year        int
	TrackNumber int
	DiscNumber  int
	Duration    float64 // seconds
	Path        string  // empty for placeholder tracks
	Artwork     []byte
	ArtworkMIME string
	SampleRate  int
	Channels    int
	BitDepth    int
	Bitrate     int // kbps
	Codec       string
	Favorite    bool
}

// NewTrack builds a Track from extracted tags. A fresh ID is generated
// every time, so rescans produce new identities for the same file.
func NewTrack(path string, t *tags.Tag) Track {
	duration := t.Duration.Seconds()
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}

	return Track{
		ID:          uuid.NewString(),
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		AlbumArtist: t.AlbumArtist,
		Composer:    t.Composer,
		Genre:       t.Genre,
		Year:        t.Year,
		TrackNumber: t.TrackNumber,
		DiscNumber:  t.DiscNumber,
		Duration:    duration,
		Path:        path,
		Artwork:     t.Artwork,
		ArtworkMIME: t.ArtworkMIME,
		SampleRate:  t.SampleRate,
		Channels:    t.Channels,
		BitDepth:    t.BitDepth,
		Bitrate:     t.Bitrate,
		Codec:       t.Codec,
	}
}

// Placeholder builds a track for a path that is not (yet) in the catalog,
// e.g. a playlist entry pointing outside the scanned roots.
func Placeholder(path, title string) Track {
	return Track{
		ID:     uuid.NewString(),
		Title:  title,
		Artist: tags.UnknownArtist,
		Album:  tags.UnknownAlbum,
		Path:   path,
	}
}

// Lossless reports whether the track's container is a lossless format.
func (t Track) Lossless() bool {
	switch lowerPathExt(t.Path) {
	case tags.ExtFLAC, tags.ExtALAC, tags.ExtWAV, tags.ExtAIFF:
		return true
	}
	return false
}

// HiRes reports whether the track exceeds CD-quality delivery.
func (t Track) HiRes() bool {
	return t.SampleRate > 48000 || t.Bitrate > 320
}

func lowerPathExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
