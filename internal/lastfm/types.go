package lastfm

import "time"

// ScrobbleTrack contains track metadata for scrobbling.
type ScrobbleTrack struct {
	Artist      string
	Track       string
	Album       string
	AlbumArtist string
	Duration    time.Duration
	Timestamp   time.Time // when playback started
}
