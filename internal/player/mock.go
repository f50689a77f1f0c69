package player

import "time"

// Mock is a test double for the engine.
type Mock struct {
	state      State
	position   time.Duration
	duration   time.Duration
	volume     float64
	muted      bool
	staged     string
	hasStaged  bool
	playErr    error
	stageErr   error
	playCalls  []string
	stageCalls []string
	seekCalls  []time.Duration
	skipCalls  int
	stopCalls  int
	finishedCh chan struct{}
	switchedCh chan struct{}
}

func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		volume:     1.0,
		finishedCh: make(chan struct{}, 1),
		switchedCh: make(chan struct{}, 1),
	}
}

func (m *Mock) Play(path string) error {
	m.playCalls = append(m.playCalls, path)
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	m.hasStaged = false
	m.staged = ""
	m.position = 0
	return nil
}

func (m *Mock) StageNext(path string) error {
	m.stageCalls = append(m.stageCalls, path)
	if m.stageErr != nil {
		return m.stageErr
	}
	m.staged = path
	m.hasStaged = true
	return nil
}

func (m *Mock) ClearNext() {
	m.staged = ""
	m.hasStaged = false
}

func (m *Mock) HasNext() bool { return m.hasStaged }

func (m *Mock) SkipToStaged() bool {
	if m.state != Playing || !m.hasStaged {
		return false
	}
	m.skipCalls++
	m.staged = ""
	m.hasStaged = false
	m.position = 0
	return true
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.state = Stopped
	m.ClearNext()
}

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) SeekTo(pos time.Duration) {
	if pos < 0 {
		pos = 0
	}
	if pos > m.duration {
		pos = m.duration
	}
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.volume = level
}

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) SetMuted(muted bool) { m.muted = muted }

func (m *Mock) Muted() bool { return m.muted }

func (m *Mock) Finished() <-chan struct{} { return m.finishedCh }

func (m *Mock) Switched() <-chan struct{} { return m.switchedCh }

// Test helpers.

func (m *Mock) SetPlayError(err error)       { m.playErr = err }
func (m *Mock) SetStageError(err error)      { m.stageErr = err }
func (m *Mock) SetPosition(d time.Duration)  { m.position = d }
func (m *Mock) SetDuration(d time.Duration)  { m.duration = d }
func (m *Mock) PlayCalls() []string          { return m.playCalls }
func (m *Mock) StageCalls() []string         { return m.stageCalls }
func (m *Mock) SeekCalls() []time.Duration   { return m.seekCalls }
func (m *Mock) SkipCalls() int               { return m.skipCalls }
func (m *Mock) StopCalls() int               { return m.stopCalls }
func (m *Mock) StagedPath() string           { return m.staged }

// SimulateFinished signals that all loaded audio drained. Like the
// real engine, the state stays Playing until someone calls Stop or
// Play; the drain callback only fires the channel.
func (m *Mock) SimulateFinished() {
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

var _ Interface = (*Mock)(nil)
