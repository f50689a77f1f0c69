package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenAt(filepath.Join(t.TempDir(), "muse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPrefs(t *testing.T) {
	m := openTestManager(t)

	assert.Equal(t, "", m.GetPref("missing"))

	require.NoError(t, m.SetPref("theme", "dark"))
	assert.Equal(t, "dark", m.GetPref("theme"))

	require.NoError(t, m.SetPref("theme", "light"))
	assert.Equal(t, "light", m.GetPref("theme"))
}

func TestScanRoots(t *testing.T) {
	m := openTestManager(t)

	roots, err := m.ScanRoots()
	require.NoError(t, err)
	assert.Empty(t, roots)

	want := []string{"/music/a", "/music/b"}
	require.NoError(t, m.SetScanRoots(want))

	roots, err = m.ScanRoots()
	require.NoError(t, err)
	assert.Equal(t, want, roots)

	// Replace drops old entries
	require.NoError(t, m.SetScanRoots([]string{"/music/c"}))
	roots, err = m.ScanRoots()
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/c"}, roots)
}

func TestVolume(t *testing.T) {
	m := openTestManager(t)

	assert.InDelta(t, 1.0, m.Volume(), 0.0001)

	require.NoError(t, m.SaveVolume(0.35))
	assert.InDelta(t, 0.35, m.Volume(), 0.0001)

	assert.False(t, m.Muted())
	require.NoError(t, m.SaveMuted(true))
	assert.True(t, m.Muted())
}

func TestQueueRoundTrip(t *testing.T) {
	m := openTestManager(t)

	// Empty state before any save
	q, err := m.GetQueue()
	require.NoError(t, err)
	assert.Equal(t, -1, q.CurrentIndex)
	assert.Empty(t, q.Tracks)

	saved := QueueState{
		Tracks: []QueueTrack{
			{Path: "/music/a.flac", Title: "A", Artist: "X", Album: "First", TrackNumber: 1, Duration: 3 * time.Minute},
			{Path: "/music/b.mp3", Title: "B", Artist: "Y", Album: "Second", TrackNumber: 2, Duration: 200 * time.Second},
		},
		CurrentIndex: 1,
		RepeatMode:   2,
		Shuffle:      true,
	}
	require.NoError(t, m.SaveQueue(saved))

	got, err := m.GetQueue()
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	// Save replaces wholesale
	require.NoError(t, m.SaveQueue(QueueState{CurrentIndex: -1}))
	got, err = m.GetQueue()
	require.NoError(t, err)
	assert.Empty(t, got.Tracks)
	assert.Equal(t, -1, got.CurrentIndex)
	assert.False(t, got.Shuffle)
}
