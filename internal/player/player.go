// Package player is the decode/render engine. It owns the beep speaker,
// which is process-exclusive, and exposes a small surface the playback
// queue drives: load a track, stage the next one for gapless handoff,
// pause/resume, seek, volume.
package player

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// The speaker can only be initialized once per process; tracks with a
// different sample rate get resampled to the first track's rate.
var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

type Engine struct {
	mu sync.Mutex

	state   State
	gapless *gaplessStreamer
	ctrl    *beep.Ctrl
	volume  *effects.Volume

	current *trackStream
	next    *trackStream

	// Set by the render goroutine when the gapless handoff fires;
	// consumed by completeSwitch on the next engine call.
	switched atomic.Bool

	volumeLevel float64
	muted       bool

	finishedCh chan struct{}
	switchedCh chan struct{}
}

func New() *Engine {
	return &Engine{
		state:       Stopped,
		volumeLevel: 1.0,
		finishedCh:  make(chan struct{}, 1),
		switchedCh:  make(chan struct{}, 1),
	}
}

// Play stops whatever is loaded and starts the given file.
func (e *Engine) Play(path string) error {
	e.Stop()

	ts, err := openTrack(path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !speakerInitialized {
		speakerSampleRate = ts.format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			ts.close()
			return newError(ErrDecodeFailed, path, err)
		}
		speakerInitialized = true
	}

	e.current = ts
	e.gapless = &gaplessStreamer{current: resampled(ts)}
	e.gapless.onSwitch = func() {
		e.switched.Store(true)
		select {
		case e.switchedCh <- struct{}{}:
		default:
		}
	}
	e.ctrl = &beep.Ctrl{Streamer: e.gapless}
	e.volume = &effects.Volume{Streamer: e.ctrl, Base: 2, Volume: levelToVolume(e.volumeLevel), Silent: e.muted}
	e.state = Playing

	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		select {
		case e.finishedCh <- struct{}{}:
		default:
		}
	})))

	return nil
}

// StageNext decodes the given file and queues it for gapless handoff
// when the current track drains. Replaces any previously staged track.
func (e *Engine) StageNext(path string) error {
	ts, err := openTrack(path)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()

	if e.state == Stopped || e.gapless == nil {
		ts.close()
		return nil
	}

	e.next.close()
	e.next = ts
	e.gapless.stage(resampled(ts))
	return nil
}

// ClearNext drops any staged track.
func (e *Engine) ClearNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()

	if e.gapless != nil {
		e.gapless.stage(nil)
	}
	e.next.close()
	e.next = nil
}

// HasNext reports whether a track is staged for gapless handoff.
func (e *Engine) HasNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()
	return e.gapless != nil && e.gapless.staged()
}

// SkipToStaged promotes the staged track immediately, performing the
// same handoff the gapless streamer would at drain. Returns false when
// nothing is staged, leaving the caller to do a full load instead.
func (e *Engine) SkipToStaged() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()

	if e.state != Playing || e.gapless == nil {
		return false
	}
	if !e.gapless.switchNow() {
		return false
	}

	e.current.close()
	e.current = e.next
	e.next = nil
	return true
}

// Stop tears down the current and staged tracks and clears the speaker.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Stopped {
		return
	}

	speaker.Clear()

	e.current.close()
	e.next.close()
	e.current = nil
	e.next = nil
	e.gapless = nil
	e.ctrl = nil
	e.volume = nil
	e.switched.Store(false)
	e.state = Stopped

	// Drain any stale finish signal so the next track does not see it.
	select {
	case <-e.finishedCh:
	default:
	}
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Playing || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	e.state = Paused
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Paused || e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()
	e.state = Playing
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the playback position within the current track.
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()
	if e.current == nil {
		return 0
	}
	// The render goroutine advances the streamer concurrently.
	speaker.Lock()
	pos := e.current.streamer.Position()
	speaker.Unlock()
	return e.current.format.SampleRate.D(pos)
}

// Duration returns the current track's total length.
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()
	if e.current == nil {
		return 0
	}
	return e.current.format.SampleRate.D(e.current.streamer.Len())
}

// SeekTo moves to an absolute position, clamped to [0, duration].
func (e *Engine) SeekTo(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completeSwitchLocked()
	if e.current == nil || e.state == Stopped {
		return
	}

	target := e.current.format.SampleRate.N(pos)
	if target < 0 {
		target = 0
	}
	if maxPos := e.current.streamer.Len(); target > maxPos {
		target = maxPos
	}

	speaker.Lock()
	_ = e.current.streamer.Seek(target)
	speaker.Unlock()
}

// SetVolume sets the level in [0,1], applied logarithmically.
func (e *Engine) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.volumeLevel = level
	if e.volume != nil && !e.muted {
		speaker.Lock()
		e.volume.Volume = levelToVolume(level)
		speaker.Unlock()
	}
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volumeLevel
}

func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	if e.volume != nil {
		speaker.Lock()
		e.volume.Silent = muted
		speaker.Unlock()
	}
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Finished signals once when all loaded audio (current plus staged)
// has drained.
func (e *Engine) Finished() <-chan struct{} { return e.finishedCh }

// Switched signals once per gapless handoff to a staged track.
func (e *Engine) Switched() <-chan struct{} { return e.switchedCh }

// completeSwitchLocked promotes the staged track to current after the
// render goroutine has performed the gapless handoff. Runs under e.mu;
// never touches the gapless streamer's own lock.
func (e *Engine) completeSwitchLocked() {
	if !e.switched.CompareAndSwap(true, false) {
		return
	}
	e.current.close()
	e.current = e.next
	e.next = nil
}

// resampled adapts a track to the speaker rate when they differ.
func resampled(ts *trackStream) beep.Streamer {
	if ts.format.SampleRate == speakerSampleRate {
		return ts.streamer
	}
	return beep.Resample(4, ts.format.SampleRate, speakerSampleRate, ts.streamer)
}

// levelToVolume maps a linear 0..1 level onto beep's base-2 log scale:
// 1.0 -> 0, 0.5 -> -1, 0 -> effectively silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
