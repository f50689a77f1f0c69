package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

var _ beep.Streamer = (*gaplessStreamer)(nil)

// gaplessStreamer chains a staged next streamer onto the current one
// inside the render callback, so the transition happens mid-buffer
// without touching the speaker.
type gaplessStreamer struct {
	mu       sync.Mutex
	current  beep.Streamer
	next     beep.Streamer
	onSwitch func() // must not call back into the streamer
}

func (g *gaplessStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for n < len(samples) {
		filled, more := g.current.Stream(samples[n:])
		n += filled
		if more {
			continue
		}
		// Current track drained. Swap in the staged track if any,
		// otherwise report exhaustion upward.
		if g.next == nil {
			return n, n > 0
		}
		g.current, g.next = g.next, nil
		if g.onSwitch != nil {
			g.onSwitch()
		}
	}
	return n, true
}

func (g *gaplessStreamer) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != nil {
		return g.current.Err()
	}
	return nil
}

// stage queues the streamer to take over when the current one drains.
// A nil streamer clears any staged track.
func (g *gaplessStreamer) stage(s beep.Streamer) {
	g.mu.Lock()
	g.next = s
	g.mu.Unlock()
}

// switchNow performs the handoff immediately instead of waiting for
// the current streamer to drain. The caller announces the switch
// itself, so onSwitch does not fire. Reports whether a staged streamer
// was promoted; false means the render goroutine got there first (or
// nothing was staged).
func (g *gaplessStreamer) switchNow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next == nil {
		return false
	}
	g.current, g.next = g.next, nil
	return true
}

func (g *gaplessStreamer) staged() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next != nil
}
