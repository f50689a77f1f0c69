package player

import "time"

// Interface is the engine contract the playback queue drives. The mock
// below implements it for tests.
type Interface interface {
	Play(path string) error
	StageNext(path string) error
	ClearNext()
	HasNext() bool
	SkipToStaged() bool
	Stop()
	Pause()
	Resume()
	State() State
	Position() time.Duration
	Duration() time.Duration
	SeekTo(pos time.Duration)
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	Finished() <-chan struct{}
	Switched() <-chan struct{}
}

var _ Interface = (*Engine)(nil)
