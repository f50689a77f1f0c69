package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDummy(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("dummy"), 0o644))
	return path
}

func TestScanDiscoversAndExtracts(t *testing.T) {
	dir := t.TempDir()
	writeDummy(t, dir, "01 - Artist - Song.mp3")
	writeDummy(t, dir, "sub/02 - Artist - Other.flac")
	writeDummy(t, dir, "notes.txt")             // filtered by extension
	writeDummy(t, dir, ".hidden/secret.mp3")    // hidden dir skipped
	writeDummy(t, dir, ".stray.mp3")            // hidden file skipped

	c := NewCatalog()
	NewScanner(c).Scan(dir, nil)

	require.Equal(t, 2, c.Len())
	_, ok := c.TrackByPath(filepath.Join(dir, "01 - Artist - Song.mp3"))
	assert.True(t, ok)
}

func TestScanRescanIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeDummy(t, dir, "a.mp3")
	writeDummy(t, dir, "b.mp3")

	c := NewCatalog()
	s := NewScanner(c)
	s.Scan(dir, nil)
	first := c.Len()

	s.Scan(dir, nil)
	assert.Equal(t, first, c.Len())
}

func TestScanUnreadableRoot(t *testing.T) {
	c := NewCatalog()
	NewScanner(c).Scan(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Zero(t, c.Len())
}

func TestScanLeavesOtherRootsAlone(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeDummy(t, rootA, "a.mp3")
	writeDummy(t, rootB, "b.mp3")

	c := NewCatalog()
	s := NewScanner(c)
	s.Scan(rootA, nil)
	s.Scan(rootB, nil)
	require.Equal(t, 2, c.Len())

	// Rescanning one root must not disturb the other.
	s.Scan(rootB, nil)
	assert.Equal(t, 2, c.Len())
	_, ok := c.TrackByPath(filepath.Join(rootA, "a.mp3"))
	assert.True(t, ok)
}

func TestScanProgressChannelCloses(t *testing.T) {
	dir := t.TempDir()
	writeDummy(t, dir, "a.mp3")

	progress := make(chan ScanProgress, 16)
	NewScanner(NewCatalog()).Scan(dir, progress)

	var last ScanProgress
	for p := range progress {
		last = p
	}
	assert.Equal(t, "done", last.Phase)
}

func TestPathUnderRoot(t *testing.T) {
	assert.True(t, pathUnderRoot("/music/a/b.mp3", "/music"))
	assert.True(t, pathUnderRoot("/music", "/music"))
	assert.False(t, pathUnderRoot("/musical/b.mp3", "/music"))
	assert.False(t, pathUnderRoot("/other/b.mp3", "/music"))
}
