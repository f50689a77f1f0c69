package library

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrack(title, artist, album, path string, trackNum int) Track {
	return Track{
		ID:          uuid.NewString(),
		Title:       title,
		Artist:      artist,
		Album:       album,
		Path:        path,
		TrackNumber: trackNum,
	}
}

func TestCatalogDedupByPath(t *testing.T) {
	c := NewCatalog()
	c.Add(testTrack("One", "A", "X", "/m/one.mp3", 1))
	c.Add(testTrack("One again", "A", "X", "/m/one.mp3", 1))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "One", c.Tracks()[0].Title)
}

func TestCatalogAlbumGrouping(t *testing.T) {
	c := NewCatalog()
	c.Add(
		testTrack("b2", "Artist", "Beta", "/m/b2.flac", 2),
		testTrack("a1", "Artist", "Alpha", "/m/a1.flac", 1),
		testTrack("b1", "Artist", "Beta", "/m/b1.flac", 1),
		testTrack("b0", "Artist", "Beta", "/m/b0.flac", 0), // untagged
		testTrack("lower", "Other", "beta", "/m/lb.flac", 1),
	)

	albums := c.Albums()
	require.Len(t, albums, 3) // grouping is case-sensitive

	assert.Equal(t, "Alpha", albums[0].Name)
	assert.Equal(t, "Beta", albums[1].Name)
	assert.Equal(t, "beta", albums[2].Name)

	// Missing track numbers sort first.
	beta := albums[1]
	assert.Equal(t, []string{"b0", "b1", "b2"}, trackTitles(beta.Tracks))
	assert.Equal(t, "Artist", beta.Artist)
}

func TestCatalogArtists(t *testing.T) {
	c := NewCatalog()
	c.Add(
		testTrack("t1", "Zeta", "Z", "/m/1.mp3", 1),
		testTrack("t2", "Alpha", "A", "/m/2.mp3", 1),
	)

	artists := c.Artists()
	require.Len(t, artists, 2)
	assert.Equal(t, "Alpha", artists[0].Name)
	assert.Equal(t, "Zeta", artists[1].Name)
}

func TestCatalogSearch(t *testing.T) {
	c := NewCatalog()
	c.Add(
		testTrack("Harder Better", "Daft Punk", "Discovery", "/m/1.mp3", 1),
		testTrack("Aerodynamic", "Daft Punk", "Discovery", "/m/2.mp3", 2),
		testTrack("Intro", "The xx", "xx", "/m/3.mp3", 1),
	)

	assert.Len(t, c.Search("daft"), 2)
	assert.Len(t, c.Search("DISCOVERY"), 2)
	assert.Len(t, c.Search("intro"), 1)
	assert.Len(t, c.Search(""), 3)
	assert.Empty(t, c.Search("nothing here"))
}

func TestCatalogRemoveAndUpdate(t *testing.T) {
	c := NewCatalog()
	tr := testTrack("Keep", "A", "X", "/m/keep.mp3", 1)
	gone := testTrack("Gone", "A", "X", "/m/gone.mp3", 2)
	c.Add(tr, gone)

	c.Remove(gone.ID)
	assert.Equal(t, 1, c.Len())
	_, ok := c.TrackByPath("/m/gone.mp3")
	assert.False(t, ok)

	tr.Favorite = true
	c.Update(tr)
	got, ok := c.TrackByID(tr.ID)
	require.True(t, ok)
	assert.True(t, got.Favorite)
}

func trackTitles(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title
	}
	return out
}
