package playlists

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrardt/muse/internal/library"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "playlists.json"))
	require.NoError(t, err)
	return s
}

func namedTracks(names ...string) []library.Track {
	out := make([]library.Track, len(names))
	for i, n := range names {
		out[i] = library.Placeholder("/m/"+n+".mp3", n)
	}
	return out
}

func titles(p *Playlist) []string {
	out := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		out[i] = t.Title
	}
	return out
}

func TestCreateRenameDelete(t *testing.T) {
	s := testStore(t)

	p, err := s.Create("Morning", namedTracks("A"))
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	require.NoError(t, s.Rename(p.ID, "Evening"))
	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Evening", got.Name)

	require.NoError(t, s.Delete(p.ID))
	_, ok = s.Get(p.ID)
	assert.False(t, ok)
}

func TestAddTrackIdempotent(t *testing.T) {
	s := testStore(t)
	p, err := s.Create("Mix", nil)
	require.NoError(t, err)

	tr := library.Placeholder("/m/a.mp3", "A")
	require.NoError(t, s.AddTrack(p.ID, tr))
	require.NoError(t, s.AddTrack(p.ID, tr))

	assert.Len(t, p.Tracks, 1)
}

func TestMoveRange(t *testing.T) {
	s := testStore(t)
	p, err := s.Create("Mix", namedTracks("A", "B", "C", "D"))
	require.NoError(t, err)

	require.NoError(t, s.MoveRange(p.ID, 0, 1, 2))
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(p))

	require.NoError(t, s.MoveRange(p.ID, 1, 2, 0))
	assert.Equal(t, []string{"C", "A", "B", "D"}, titles(p))

	err = s.MoveRange(p.ID, 3, 2, 0)
	assert.Error(t, err)
}

func TestLoadDropsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "keep.mp3")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	storePath := filepath.Join(dir, "playlists.json")
	s, err := OpenAt(storePath)
	require.NoError(t, err)
	p, err := s.Create("Mix", []library.Track{
		library.Placeholder(existing, "keep"),
		library.Placeholder(filepath.Join(dir, "gone.mp3"), "gone"),
	})
	require.NoError(t, err)

	reloaded, err := OpenAt(storePath)
	require.NoError(t, err)
	got, ok := reloaded.Get(p.ID)
	require.True(t, ok)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, existing, got.Tracks[0].Path)
	assert.Equal(t, "keep", got.Tracks[0].Title)
}

func TestResolveSwapsPlaceholders(t *testing.T) {
	s := testStore(t)
	p, err := s.Create("Mix", namedTracks("a"))
	require.NoError(t, err)

	catalog := library.NewCatalog()
	real := library.Track{ID: "real-id", Title: "Real A", Path: "/m/a.mp3", Duration: 200}
	catalog.Add(real)

	s.Resolve(catalog)
	assert.Equal(t, "real-id", p.Tracks[0].ID)
	assert.Equal(t, "Real A", p.Tracks[0].Title)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenAt(path)
	assert.Error(t, err)
}
