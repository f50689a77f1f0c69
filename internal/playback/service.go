package playback

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/evrardt/muse/internal/library"
	"github.com/evrardt/muse/internal/player"
)

// scrubThreshold is how far into a track Previous restarts it instead
// of going back one entry.
const scrubThreshold = 3 * time.Second

// Service drives the render engine from the queue and broadcasts
// every observable change to subscribers.
type Service struct {
	mu sync.Mutex

	player player.Interface
	queue  *Queue
	repeat RepeatMode
	rng    *rand.Rand

	lastState State

	subsMu sync.RWMutex
	subs   []*Subscription

	done   chan struct{}
	closed bool
}

func New(p player.Interface) *Service {
	s := &Service{
		player: p,
		queue:  NewQueue(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		done:   make(chan struct{}),
	}
	go s.watch()
	return s
}

// watch reacts to the engine's track-boundary signals.
func (s *Service) watch() {
	for {
		select {
		case <-s.done:
			return
		case <-s.player.Switched():
			s.handleGaplessSwitch()
		case <-s.player.Finished():
			s.handleTrackFinished()
		}
	}
}

// PlayQueue replaces the queue and starts playback at start.
func (s *Service) PlayQueue(tracks []library.Track, start int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevIndex := s.currentRefLocked()
	s.queue.Replace(tracks, start)
	s.broadcastQueueLocked()

	if s.queue.IsEmpty() {
		s.player.Stop()
		s.emitStateLocked()
		return nil
	}
	return s.playCurrentLocked(prev, prevIndex)
}

// LoadQueue replaces the queue without starting playback. Used to
// restore a persisted queue at startup. A queue saved while shuffled
// comes back reporting shuffled over the same (already shuffled)
// order.
func (s *Service) LoadQueue(tracks []library.Track, index int, shuffled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Replace(tracks, index)
	if shuffled {
		s.queue.RestoreShuffled()
	}
	s.broadcastQueueLocked()
	s.broadcastModeLocked()
}

// Play starts (or restarts) the track at the current queue position.
func (s *Service) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, prevIndex := s.currentRefLocked()
	return s.playCurrentLocked(prev, prevIndex)
}

// Pause pauses playback.
func (s *Service) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Pause()
	s.emitStateLocked()
}

// Resume resumes paused playback.
func (s *Service) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Resume()
	s.emitStateLocked()
}

// Toggle flips between playing and paused; starts playback when
// stopped with a non-empty queue.
func (s *Service) Toggle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.player.State() {
	case player.Playing:
		s.player.Pause()
		s.emitStateLocked()
	case player.Paused:
		s.player.Resume()
		s.emitStateLocked()
	case player.Stopped:
		if !s.queue.IsEmpty() {
			prev, prevIndex := s.currentRefLocked()
			return s.playCurrentLocked(prev, prevIndex)
		}
	}
	return nil
}

// Stop halts playback; the queue position is kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Stop()
	s.emitStateLocked()
}

// Next advances one position, wrapping at the end.
func (s *Service) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsEmpty() {
		return nil
	}
	prev, prevIndex := s.currentRefLocked()
	s.queue.SetIndex(s.queue.NextIndex())

	// The staged successor is exactly the track now at the queue
	// position, so promote it in place of a teardown and reload.
	if s.player.SkipToStaged() {
		s.broadcastTrackLocked(prev, prevIndex)
		s.stageNextLocked()
		s.emitStateLocked()
		return nil
	}
	return s.playCurrentLocked(prev, prevIndex)
}

// Previous restarts the current track when more than three seconds in,
// otherwise moves back one position, wrapping at the start.
func (s *Service) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsEmpty() {
		return nil
	}

	if s.player.State().IsActive() && s.player.Position() > scrubThreshold {
		s.player.SeekTo(0)
		s.broadcastPositionLocked(0)
		return nil
	}

	prev, prevIndex := s.currentRefLocked()
	s.queue.SetIndex(s.queue.PrevIndex())
	return s.playCurrentLocked(prev, prevIndex)
}

// JumpTo plays the track at the given queue position.
func (s *Service) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevIndex := s.currentRefLocked()
	if !s.queue.SetIndex(index) {
		return nil
	}
	return s.playCurrentLocked(prev, prevIndex)
}

// SeekTo seeks to an absolute position; the engine clamps it.
func (s *Service) SeekTo(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	if dur := s.player.Duration(); dur > 0 && pos > dur {
		pos = dur
	}
	s.player.SeekTo(pos)
	s.broadcastPositionLocked(pos)
}

// Seek moves the position by a relative delta.
func (s *Service) Seek(delta time.Duration) {
	s.mu.Lock()
	pos := s.player.Position() + delta
	s.mu.Unlock()
	s.SeekTo(pos)
}

// SetRepeatMode changes the repeat mode and restages the next track
// accordingly.
func (s *Service) SetRepeatMode(mode RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = mode
	s.stageNextLocked()
	s.broadcastModeLocked()
}

// CycleRepeatMode steps off → all → one → off.
func (s *Service) CycleRepeatMode() RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = s.repeat.Cycle()
	s.stageNextLocked()
	s.broadcastModeLocked()
	return s.repeat
}

// ToggleShuffle flips shuffle and reports the new value.
func (s *Service) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Shuffled() {
		s.queue.Unshuffle()
	} else {
		s.queue.Shuffle(s.rng)
	}
	s.stageNextLocked()
	s.broadcastModeLocked()
	s.broadcastQueueLocked()
	return s.queue.Shuffled()
}

func (s *Service) SetVolume(level float64) {
	s.player.SetVolume(level)
}

func (s *Service) Volume() float64 { return s.player.Volume() }

func (s *Service) SetMuted(muted bool) { s.player.SetMuted(muted) }

func (s *Service) Muted() bool { return s.player.Muted() }

// State queries.

func (s *Service) State() State {
	return playerStateToState(s.player.State())
}

func (s *Service) IsPlaying() bool { return s.State() == StatePlaying }

func (s *Service) Position() time.Duration { return s.player.Position() }

func (s *Service) Duration() time.Duration { return s.player.Duration() }

func (s *Service) CurrentTrack() (library.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

func (s *Service) QueueTracks() []library.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

func (s *Service) QueueIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Index()
}

func (s *Service) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *Service) RepeatMode() RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repeat
}

func (s *Service) Shuffled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Shuffled()
}

// Subscribe creates a new event subscription.
func (s *Service) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops the watcher and closes all subscriptions.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.player.Stop()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}

// handleGaplessSwitch runs when the engine hands off to the staged
// track: the queue advances without any engine teardown.
func (s *Service) handleGaplessSwitch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevIndex := s.currentRefLocked()
	s.queue.SetIndex(s.queue.NextIndex())
	s.broadcastTrackLocked(prev, prevIndex)
	s.stageNextLocked()
}

// handleTrackFinished runs when all loaded audio drained with nothing
// staged: repeat-one restarts, repeat-all wraps, repeat-off stops on
// the last track.
func (s *Service) handleTrackFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsEmpty() {
		s.player.Stop()
		s.emitStateLocked()
		return
	}

	prev, prevIndex := s.currentRefLocked()

	switch s.repeat {
	case RepeatOne:
		// Same track from the top; no track change to announce.
		s.replayCurrentLocked()
		return
	case RepeatAll:
		s.queue.SetIndex(s.queue.NextIndex())
		_ = s.playCurrentLocked(prev, prevIndex)
	case RepeatOff:
		if s.queue.IsLast() {
			// Terminal stop: the engine still reports playing after a
			// natural drain, so tear it down explicitly to close the
			// streams. The position stays on the last track.
			s.player.Stop()
			s.emitStateLocked()
			return
		}
		s.queue.SetIndex(s.queue.NextIndex())
		_ = s.playCurrentLocked(prev, prevIndex)
	}
}

func (s *Service) replayCurrentLocked() {
	current, ok := s.queue.Current()
	if !ok {
		return
	}
	if err := s.playerPlayLocked(current); err != nil {
		return
	}
	s.broadcastPositionLocked(0)
	s.emitStateLocked()
}

// playCurrentLocked tears down whatever is playing, loads the track at
// the queue position and stages its successor for gapless handoff.
func (s *Service) playCurrentLocked(prev *library.Track, prevIndex int) error {
	current, ok := s.queue.Current()
	if !ok {
		s.player.Stop()
		s.emitStateLocked()
		return nil
	}

	if err := s.playerPlayLocked(current); err != nil {
		return err
	}

	s.stageNextLocked()
	s.broadcastTrackLocked(prev, prevIndex)
	s.emitStateLocked()
	return nil
}

// playerPlayLocked starts the engine on a track, classifying and
// broadcasting failures. The queue is left untouched on error so the
// subscriber can decide to skip.
func (s *Service) playerPlayLocked(t library.Track) error {
	err := s.player.Play(t.Path)
	if err == nil {
		return nil
	}

	var perr *player.Error
	if !errors.As(err, &perr) {
		perr = &player.Error{Kind: player.ErrDecodeFailed, Path: t.Path, Err: err}
	}
	s.broadcastErrorLocked(ErrorEvent{Operation: "play", Path: t.Path, Err: perr})
	s.emitStateLocked()
	return perr
}

// stageNextLocked keeps the engine's staged track in sync with the
// queue and repeat mode. Repeat-one never stages; repeat-off does not
// stage past the final track.
func (s *Service) stageNextLocked() {
	if !s.player.State().IsActive() {
		return
	}
	if s.repeat == RepeatOne || s.queue.Len() < 2 ||
		(s.repeat == RepeatOff && s.queue.IsLast()) {
		s.player.ClearNext()
		return
	}

	next := s.queue.Tracks()[s.queue.NextIndex()]
	// Staging failures are recoverable: the finished handler will try
	// a full load when the current track drains.
	_ = s.player.StageNext(next.Path)
}

func (s *Service) currentRefLocked() (*library.Track, int) {
	if t, ok := s.queue.Current(); ok {
		return &t, s.queue.Index()
	}
	return nil, -1
}

func playerStateToState(ps player.State) State {
	switch ps {
	case player.Playing:
		return StatePlaying
	case player.Paused:
		return StatePaused
	default:
		return StateStopped
	}
}

// Broadcast helpers. Callers hold s.mu; subscriber sends never block.

func (s *Service) emitStateLocked() {
	current := playerStateToState(s.player.State())
	if current == s.lastState {
		return
	}
	e := StateChange{Previous: s.lastState, Current: current}
	s.lastState = current
	s.eachSub(func(sub *Subscription) { sub.sendState(e) })
}

func (s *Service) broadcastTrackLocked(prev *library.Track, prevIndex int) {
	current, currentIndex := s.currentRefLocked()
	e := TrackChange{
		Previous:      prev,
		Current:       current,
		PreviousIndex: prevIndex,
		Index:         currentIndex,
	}
	s.eachSub(func(sub *Subscription) { sub.sendTrack(e) })
}

func (s *Service) broadcastQueueLocked() {
	e := QueueChange{Tracks: s.queue.Tracks(), Index: s.queue.Index()}
	s.eachSub(func(sub *Subscription) { sub.sendQueue(e) })
}

func (s *Service) broadcastModeLocked() {
	e := ModeChange{RepeatMode: s.repeat, Shuffle: s.queue.Shuffled()}
	s.eachSub(func(sub *Subscription) { sub.sendMode(e) })
}

func (s *Service) broadcastPositionLocked(pos time.Duration) {
	e := PositionChange{Position: pos}
	s.eachSub(func(sub *Subscription) { sub.sendPosition(e) })
}

func (s *Service) broadcastErrorLocked(e ErrorEvent) {
	s.eachSub(func(sub *Subscription) { sub.sendError(e) })
}

func (s *Service) eachSub(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}
