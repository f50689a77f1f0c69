package player

import (
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
)

// constStreamer emits a fixed value for a fixed number of samples.
type constStreamer struct {
	value     float64
	remaining int
}

func (s *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), s.remaining)
	for i := range n {
		samples[i][0] = s.value
		samples[i][1] = s.value
	}
	s.remaining -= n
	return n, n > 0
}

func (s *constStreamer) Err() error { return nil }

func drain(t *testing.T, s beep.Streamer, bufSize int) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, bufSize)
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
}

func TestGaplessHandoffMidBuffer(t *testing.T) {
	g := &gaplessStreamer{current: &constStreamer{value: 1, remaining: 5}}
	g.stage(&constStreamer{value: 2, remaining: 5})

	switched := 0
	g.onSwitch = func() { switched++ }

	out := drain(t, g, 4)

	assert.Equal(t, 1, switched)
	assert.Len(t, out, 10)
	assert.Equal(t, 1.0, out[4])
	assert.Equal(t, 2.0, out[5])
}

func TestGaplessNoStagedTrackEnds(t *testing.T) {
	g := &gaplessStreamer{current: &constStreamer{value: 1, remaining: 3}}
	out := drain(t, g, 8)
	assert.Len(t, out, 3)
}

func TestGaplessStageDuringPlayback(t *testing.T) {
	g := &gaplessStreamer{current: &constStreamer{value: 1, remaining: 8}}

	buf := make([][2]float64, 4)
	n, ok := g.Stream(buf)
	assert.Equal(t, 4, n)
	assert.True(t, ok)

	g.stage(&constStreamer{value: 2, remaining: 2})
	assert.True(t, g.staged())

	out := drain(t, g, 4)
	assert.Len(t, out, 6) // 4 left of current + 2 staged
	assert.Equal(t, 2.0, out[5])
}

func TestGaplessSwitchNow(t *testing.T) {
	g := &gaplessStreamer{current: &constStreamer{value: 1, remaining: 8}}
	g.stage(&constStreamer{value: 2, remaining: 3})

	fired := 0
	g.onSwitch = func() { fired++ }

	// Manual promotion drops the rest of the current track and does
	// not announce the switch; the caller does.
	assert.True(t, g.switchNow())
	assert.Equal(t, 0, fired)
	assert.False(t, g.staged())

	out := drain(t, g, 4)
	assert.Len(t, out, 3)
	assert.Equal(t, 2.0, out[0])

	// Nothing staged anymore.
	assert.False(t, g.switchNow())
}

func TestLevelToVolume(t *testing.T) {
	assert.Equal(t, 0.0, levelToVolume(1))
	assert.Equal(t, -1.0, levelToVolume(0.5))
	assert.Equal(t, -10.0, levelToVolume(0))
}
