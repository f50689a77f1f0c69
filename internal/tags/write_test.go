package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMP3 writes a file starting with a bare MPEG frame header,
// enough for the ID3 library to append a tag to.
func createTestMP3(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp3")

	frame := make([]byte, 417)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90

	require.NoError(t, os.WriteFile(path, frame, 0o600))
	return path
}

func TestWriteMP3RoundTrip(t *testing.T) {
	path := createTestMP3(t, t.TempDir())

	artwork := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	in := &Tag{
		Title:       "Harder Better",
		Artist:      "Daft Punk",
		Album:       "Discovery",
		AlbumArtist: "Daft Punk",
		Genre:       "House",
		Year:        2001,
		TrackNumber: 4,
		TotalTracks: 14,
		DiscNumber:  1,
		TotalDiscs:  2,
		Artwork:     artwork,
	}
	require.NoError(t, Write(path, in))

	out := Extract(path)
	assert.Equal(t, "Harder Better", out.Title)
	assert.Equal(t, "Daft Punk", out.Artist)
	assert.Equal(t, "Discovery", out.Album)
	assert.Equal(t, "Daft Punk", out.AlbumArtist)
	assert.Equal(t, "House", out.Genre)
	assert.Equal(t, 2001, out.Year)
	assert.Equal(t, 4, out.TrackNumber)
	assert.Equal(t, 14, out.TotalTracks)
	assert.Equal(t, 1, out.DiscNumber)
	assert.Equal(t, 2, out.TotalDiscs)
	assert.Equal(t, artwork, out.Artwork)
	assert.Equal(t, mimeJPEG, out.ArtworkMIME)
}

func TestWriteMP3ReplacesValues(t *testing.T) {
	path := createTestMP3(t, t.TempDir())

	require.NoError(t, Write(path, &Tag{Title: "Old Title", Artist: "Old Artist"}))
	require.NoError(t, Write(path, &Tag{Title: "New Title", Artist: "New Artist"}))

	// Check the frames directly as well as the extraction path.
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	assert.Equal(t, "New Title", id3tag.Title())
	assert.Equal(t, "New Artist", id3tag.Artist())
	require.NoError(t, id3tag.Close())

	out := Extract(path)
	assert.Equal(t, "New Title", out.Title)
	assert.Equal(t, "New Artist", out.Artist)
}

func TestWriteRejectsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o600))

	err := Write(path, &Tag{Title: "T"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestWriteMissingFile(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "nope.mp3"), &Tag{Title: "T"})
	require.Error(t, err)
}

func TestDetectMimeType(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	assert.Equal(t, mimePNG, detectMimeType(png))
	assert.Equal(t, mimeJPEG, detectMimeType([]byte{0xFF, 0xD8, 0xFF}))
	assert.Equal(t, mimeJPEG, detectMimeType(nil))
}
