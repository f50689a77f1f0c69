package playback

import (
	"math/rand"

	"github.com/evrardt/muse/internal/library"
)

// Queue is the playback order. Not safe for concurrent use; the service
// serializes access. Shuffling keeps a snapshot of the pre-shuffle
// order so disabling shuffle restores it exactly.
type Queue struct {
	tracks   []library.Track
	index    int // -1 when empty
	shuffled bool
	snapshot []library.Track // order before shuffle; nil when not shuffled
}

func NewQueue() *Queue {
	return &Queue{index: -1}
}

// Replace swaps in a new track list and positions at start (clamped).
// Replacing always drops the shuffle snapshot.
func (q *Queue) Replace(tracks []library.Track, start int) {
	q.tracks = append([]library.Track(nil), tracks...)
	q.snapshot = nil
	q.shuffled = false
	if len(q.tracks) == 0 {
		q.index = -1
		return
	}
	if start < 0 {
		start = 0
	}
	if start >= len(q.tracks) {
		start = len(q.tracks) - 1
	}
	q.index = start
}

// Append adds tracks at the end without touching the current position.
func (q *Queue) Append(tracks ...library.Track) {
	q.tracks = append(q.tracks, tracks...)
	if q.index < 0 && len(q.tracks) > 0 {
		q.index = 0
	}
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.tracks = nil
	q.snapshot = nil
	q.shuffled = false
	q.index = -1
}

func (q *Queue) Len() int      { return len(q.tracks) }
func (q *Queue) IsEmpty() bool { return len(q.tracks) == 0 }
func (q *Queue) Index() int    { return q.index }

// Tracks returns a copy of the queue in play order.
func (q *Queue) Tracks() []library.Track {
	out := make([]library.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// Current returns the track at the play position.
func (q *Queue) Current() (library.Track, bool) {
	if q.index < 0 || q.index >= len(q.tracks) {
		return library.Track{}, false
	}
	return q.tracks[q.index], true
}

// SetIndex jumps to the given position if valid.
func (q *Queue) SetIndex(index int) bool {
	if index < 0 || index >= len(q.tracks) {
		return false
	}
	q.index = index
	return true
}

// NextIndex returns the position after the current one, wrapping.
func (q *Queue) NextIndex() int {
	if len(q.tracks) == 0 {
		return -1
	}
	return (q.index + 1) % len(q.tracks)
}

// PrevIndex returns the position before the current one, wrapping.
func (q *Queue) PrevIndex() int {
	if len(q.tracks) == 0 {
		return -1
	}
	return (q.index - 1 + len(q.tracks)) % len(q.tracks)
}

// IsLast reports whether the play position is the final track.
func (q *Queue) IsLast() bool {
	return len(q.tracks) > 0 && q.index == len(q.tracks)-1
}

func (q *Queue) Shuffled() bool { return q.shuffled }

// RestoreShuffled marks the current order as already shuffled, taking
// it as its own snapshot. Used when a shuffled queue is reloaded from
// disk and the pre-shuffle order is gone: Unshuffle then keeps the
// order and only clears the flag.
func (q *Queue) RestoreShuffled() {
	if q.shuffled || len(q.tracks) == 0 {
		return
	}
	q.snapshot = append([]library.Track(nil), q.tracks...)
	q.shuffled = true
}

// Shuffle snapshots the current order, pins the playing track at
// position 0 and permutes the rest. No-op when already shuffled.
func (q *Queue) Shuffle(rng *rand.Rand) {
	if q.shuffled || len(q.tracks) == 0 {
		return
	}

	q.snapshot = append([]library.Track(nil), q.tracks...)

	rest := make([]library.Track, 0, len(q.tracks)-1)
	for i, t := range q.tracks {
		if i != q.index {
			rest = append(rest, t)
		}
	}
	rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	current := q.tracks[q.index]
	q.tracks = append([]library.Track{current}, rest...)
	q.index = 0
	q.shuffled = true
}

// Unshuffle restores the snapshot order and relocates the playing
// track. If the playing track is gone from the snapshot the order is
// still restored and the position clamps to 0.
func (q *Queue) Unshuffle() {
	if !q.shuffled {
		return
	}

	current, hasCurrent := q.Current()
	q.tracks = q.snapshot
	q.snapshot = nil
	q.shuffled = false

	q.index = 0
	if !hasCurrent {
		if len(q.tracks) == 0 {
			q.index = -1
		}
		return
	}
	for i, t := range q.tracks {
		if t.ID == current.ID {
			q.index = i
			return
		}
	}
}
