package lastfm

import (
	"time"

	"github.com/evrardt/muse/internal/library"
	"github.com/evrardt/muse/internal/playback"
)

// minScrobbleLen is the Last.fm floor below which plays never scrobble.
const minScrobbleLen = 30 * time.Second

// Scrobbler listens to playback track changes, sending now-playing on
// every new track and scrobbling the finished one when it qualifies.
// Every API error is swallowed: scrobbling must never disturb playback.
type Scrobbler struct {
	client *Client
	sub    *playback.Subscription

	current   *library.Track
	startedAt time.Time
}

// NewScrobbler attaches to a playback service. Call Run on its own
// goroutine.
func NewScrobbler(client *Client, svc *playback.Service) *Scrobbler {
	return &Scrobbler{
		client: client,
		sub:    svc.Subscribe(),
	}
}

// Run processes track changes until the subscription closes.
func (s *Scrobbler) Run() {
	for {
		select {
		case <-s.sub.Done:
			s.flush()
			return
		case e := <-s.sub.TrackChanged:
			s.onTrackChange(e)
		}
	}
}

func (s *Scrobbler) onTrackChange(e playback.TrackChange) {
	s.flush()

	s.current = e.Current
	s.startedAt = time.Now()
	if e.Current == nil {
		return
	}

	_ = s.client.UpdateNowPlaying(ScrobbleTrack{
		Artist:      e.Current.Artist,
		Track:       e.Current.Title,
		Album:       e.Current.Album,
		AlbumArtist: e.Current.AlbumArtist,
		Duration:    secondsToDuration(e.Current.Duration),
	})
}

// flush scrobbles the track that just stopped playing, if it played
// long enough: half its length, or four minutes, whichever is shorter.
func (s *Scrobbler) flush() {
	t := s.current
	s.current = nil
	if t == nil || t.Artist == "" || t.Title == "" {
		return
	}

	played := time.Since(s.startedAt)
	length := secondsToDuration(t.Duration)
	if played < minScrobbleLen {
		return
	}
	if length > 0 && played < length/2 && played < 4*time.Minute {
		return
	}

	_ = s.client.Scrobble(ScrobbleTrack{
		Artist:      t.Artist,
		Track:       t.Title,
		Album:       t.Album,
		AlbumArtist: t.AlbumArtist,
		Duration:    length,
		Timestamp:   s.startedAt,
	})
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
