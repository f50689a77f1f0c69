package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrardt/muse/internal/player"
)

func newTestService(t *testing.T) (*Service, *player.Mock) {
	t.Helper()
	mock := player.NewMock()
	s := New(mock)
	t.Cleanup(func() { _ = s.Close() })
	return s, mock
}

func TestPlayQueueStartsAndStagesNext(t *testing.T) {
	s, mock := newTestService(t)
	tracks := queueTracks("A", "B", "C")

	require.NoError(t, s.PlayQueue(tracks, 0))

	assert.Equal(t, []string{"/m/A.mp3"}, mock.PlayCalls())
	assert.Equal(t, "/m/B.mp3", mock.StagedPath())
	assert.True(t, s.IsPlaying())
}

func TestNextWrapsAround(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 1))

	require.NoError(t, s.Next())

	assert.Equal(t, 0, s.QueueIndex())
	assert.Equal(t, "/m/A.mp3", mock.PlayCalls()[len(mock.PlayCalls())-1])
}

func TestNextPromotesStagedTrack(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B", "C"), 0))
	require.Equal(t, "/m/B.mp3", mock.StagedPath())

	require.NoError(t, s.Next())

	// The staged stream switched over; no teardown-and-reload.
	assert.Equal(t, 1, mock.SkipCalls())
	assert.Equal(t, []string{"/m/A.mp3"}, mock.PlayCalls())
	assert.Equal(t, 1, s.QueueIndex())
	assert.Equal(t, "/m/C.mp3", mock.StagedPath())
}

func TestPreviousScrubRule(t *testing.T) {
	s, mock := newTestService(t)
	mock.SetDuration(3 * time.Minute)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 1))

	// Deep into the track: restart instead of going back.
	mock.SetPosition(10 * time.Second)
	require.NoError(t, s.Previous())
	assert.Equal(t, 1, s.QueueIndex())
	require.NotEmpty(t, mock.SeekCalls())
	assert.Equal(t, time.Duration(0), mock.SeekCalls()[len(mock.SeekCalls())-1])

	// Near the start: move back one entry.
	mock.SetPosition(time.Second)
	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.QueueIndex())
}

func TestRepeatOffTerminalStop(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 1))

	// After a natural drain the engine still reports Playing; only the
	// finish signal fires. The service must tear the engine down itself.
	require.Equal(t, player.Playing, mock.State())
	s.handleTrackFinished()

	assert.Equal(t, player.Stopped, mock.State())
	assert.GreaterOrEqual(t, mock.StopCalls(), 1)
	assert.Equal(t, StateStopped, s.State())
	assert.False(t, s.IsPlaying())
	assert.Equal(t, 1, s.QueueIndex())
}

func TestRepeatAllWrapsOnFinish(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 1))
	s.SetRepeatMode(RepeatAll)

	s.handleTrackFinished()

	assert.Equal(t, 0, s.QueueIndex())
	assert.True(t, s.IsPlaying())
}

func TestRepeatOneRestartsSameTrack(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 0))
	s.SetRepeatMode(RepeatOne)

	// Repeat-one never stages a successor.
	assert.False(t, mock.HasNext())

	s.handleTrackFinished()

	assert.Equal(t, 0, s.QueueIndex())
	calls := mock.PlayCalls()
	assert.Equal(t, "/m/A.mp3", calls[len(calls)-1])
}

func TestRepeatOffDoesNotStagePastLastTrack(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B"), 1))
	assert.False(t, mock.HasNext())
}

func TestGaplessSwitchAdvancesQueue(t *testing.T) {
	s, mock := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B", "C"), 0))

	sub := s.Subscribe()
	s.handleGaplessSwitch()

	assert.Equal(t, 1, s.QueueIndex())
	assert.Equal(t, "/m/C.mp3", mock.StagedPath())

	select {
	case e := <-sub.TrackChanged:
		require.NotNil(t, e.Current)
		assert.Equal(t, "B", e.Current.Title)
		assert.Equal(t, 1, e.Index)
	default:
		t.Fatal("expected a track change event")
	}
}

func TestToggleShuffleKeepsPlayingTrack(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.PlayQueue(queueTracks("A", "B", "C", "D"), 2))
	playing, _ := s.CurrentTrack()

	assert.True(t, s.ToggleShuffle())
	assert.Equal(t, 0, s.QueueIndex())
	current, _ := s.CurrentTrack()
	assert.Equal(t, playing.ID, current.ID)

	assert.False(t, s.ToggleShuffle())
	assert.Equal(t, 2, s.QueueIndex())
}

func TestLoadQueueRestoresShuffleFlag(t *testing.T) {
	s, mock := newTestService(t)
	tracks := queueTracks("A", "B", "C")

	s.LoadQueue(tracks, 1, true)

	assert.True(t, s.Shuffled())
	assert.Equal(t, 1, s.QueueIndex())
	// Restoring never starts playback.
	assert.Empty(t, mock.PlayCalls())

	// Disabling shuffle keeps the restored order; only the flag drops.
	assert.False(t, s.ToggleShuffle())
	for i, tr := range s.QueueTracks() {
		assert.Equal(t, tracks[i].ID, tr.ID)
	}
}

func TestPlayErrorBroadcastsAndKeepsQueue(t *testing.T) {
	s, mock := newTestService(t)
	sub := s.Subscribe()

	mock.SetPlayError(&player.Error{Kind: player.ErrFileNotFound, Path: "/m/A.mp3"})
	err := s.PlayQueue(queueTracks("A", "B"), 0)
	require.Error(t, err)

	var perr *player.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, player.ErrFileNotFound, perr.Kind)

	// Queue stays intact so the subscriber can skip onward.
	assert.Equal(t, 2, s.QueueLen())
	assert.Equal(t, 0, s.QueueIndex())

	select {
	case e := <-sub.Error:
		assert.Equal(t, "play", e.Operation)
		assert.Equal(t, "/m/A.mp3", e.Path)
	default:
		t.Fatal("expected an error event")
	}
}

func TestSeekClampsToDuration(t *testing.T) {
	s, mock := newTestService(t)
	mock.SetDuration(time.Minute)
	require.NoError(t, s.PlayQueue(queueTracks("A"), 0))

	s.SeekTo(2 * time.Minute)
	assert.Equal(t, time.Minute, mock.Position())

	s.SeekTo(-5 * time.Second)
	assert.Equal(t, time.Duration(0), mock.Position())
}

func TestStateChangeEvents(t *testing.T) {
	s, _ := newTestService(t)
	sub := s.Subscribe()

	require.NoError(t, s.PlayQueue(queueTracks("A"), 0))
	e := <-sub.StateChanged
	assert.Equal(t, StateStopped, e.Previous)
	assert.Equal(t, StatePlaying, e.Current)

	s.Pause()
	e = <-sub.StateChanged
	assert.Equal(t, StatePaused, e.Current)
}

func TestSubscriptionClosedOnClose(t *testing.T) {
	mock := player.NewMock()
	s := New(mock)
	sub := s.Subscribe()

	require.NoError(t, s.Close())

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}
