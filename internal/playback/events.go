package playback

import (
	"time"

	"github.com/evrardt/muse/internal/library"
)

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback moves to a different track,
// whether by user navigation or an end-of-track transition. Pure
// position queries never emit it.
type TrackChange struct {
	Previous      *library.Track
	Current       *library.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents or order change.
type QueueChange struct {
	Tracks []library.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange is emitted after a seek.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent carries a classified playback failure. The queue stays
// consistent; subscribers decide whether to skip onward.
type ErrorEvent struct {
	Operation string
	Path      string
	Err       error
}
