package lyrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrardt/muse/internal/lrclib"
)

// lrclibStub serves search results; the exact-match endpoint misses so
// resolution falls through to search.
func lrclibStub(t *testing.T, results []lrclib.LyricsResult) *lrclib.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get":
			w.WriteHeader(http.StatusNotFound)
		case "/search":
			require.NoError(t, json.NewEncoder(w).Encode(results))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)
	return lrclib.NewWithBaseURL(srv.URL)
}

func TestFetchPrefersSidecar(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.flac")
	lrc := filepath.Join(dir, "song.lrc")
	require.NoError(t, os.WriteFile(audio, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(lrc, []byte("[00:01.00]Hello\n"), 0o644))

	r := NewResolver(false)
	res := r.Fetch(context.Background(), TrackInfo{FilePath: audio, Artist: "A", Title: "T"})

	assert.Equal(t, "sidecar", res.Source)
	require.NotNil(t, res.Lyrics)
	assert.Equal(t, "Hello", res.Lyrics.Lines[0].Text)
}

func TestFetchRemoteExactMatchFirst(t *testing.T) {
	var searched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get":
			assert.Equal(t, "A", r.URL.Query().Get("artist_name"))
			assert.Equal(t, "T", r.URL.Query().Get("track_name"))
			require.NoError(t, json.NewEncoder(w).Encode(lrclib.LyricsResult{
				TrackName:    "T",
				ArtistName:   "A",
				SyncedLyrics: "[00:02.00]Exact line\n",
			}))
		case "/search":
			searched = true
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	r := NewResolverWithClient(lrclib.NewWithBaseURL(srv.URL))
	res := r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})

	require.Equal(t, "remote", res.Source)
	require.NotNil(t, res.Lyrics)
	assert.Equal(t, "Exact line", res.Lyrics.Lines[0].Text)
	assert.False(t, searched, "exact hit should not fall through to search")
}

func TestFetchRemotePrefersSynced(t *testing.T) {
	client := lrclibStub(t, []lrclib.LyricsResult{
		{TrackName: "T", ArtistName: "A", PlainLyrics: "plain only"},
		{TrackName: "T", ArtistName: "A", SyncedLyrics: "[00:05.00]Synced line\n"},
	})

	r := NewResolverWithClient(client)
	res := r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})

	require.Equal(t, "remote", res.Source)
	require.NotNil(t, res.Lyrics)
	assert.True(t, res.Lyrics.IsSynced())
	assert.Equal(t, "Synced line", res.Lyrics.Lines[0].Text)

	// Second fetch hits the session cache.
	res = r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})
	assert.Equal(t, "cache", res.Source)
}

func TestFetchRemotePlainFallback(t *testing.T) {
	client := lrclibStub(t, []lrclib.LyricsResult{
		{TrackName: "T", ArtistName: "A", PlainLyrics: "Line one\n\nLine two\n"},
	})

	r := NewResolverWithClient(client)
	res := r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})

	require.Equal(t, "remote", res.Source)
	require.Len(t, res.Lyrics.Lines, 2)
	assert.False(t, res.Lyrics.IsSynced())
}

func TestFetchRemoteDisabled(t *testing.T) {
	r := NewResolver(false)
	res := r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})
	assert.Equal(t, "not_found", res.Source)
	assert.Nil(t, res.Lyrics)
	assert.NoError(t, res.Err)
}

func TestFetchRemoteFailureIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewResolverWithClient(lrclib.NewWithBaseURL(srv.URL))
	res := r.Fetch(context.Background(), TrackInfo{Artist: "A", Title: "T"})

	assert.Equal(t, "not_found", res.Source)
	assert.Nil(t, res.Lyrics)
	assert.Error(t, res.Err)
}

func TestFetchMissingMetadata(t *testing.T) {
	r := NewResolver(true)
	res := r.Fetch(context.Background(), TrackInfo{Title: "T"})
	assert.Equal(t, "not_found", res.Source)
}
