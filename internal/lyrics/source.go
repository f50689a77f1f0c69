package lyrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/evrardt/muse/internal/lrclib"
)

// TrackInfo identifies the track to resolve lyrics for.
type TrackInfo struct {
	FilePath string // audio file path, for sidecar .lrc lookup
	Artist   string
	Title    string
	Album    string
	Duration time.Duration
}

// FetchResult is the outcome of a lyrics fetch.
type FetchResult struct {
	Lyrics *Lyrics
	Source string // "sidecar", "cache", "remote", or "not_found"
	Err    error  // remote failure detail; never set for a plain miss
}

// Resolver finds lyrics in priority order: a sidecar .lrc next to the
// audio file, then the in-memory cache, then the lrclib API. Remote
// hits are cached for the session.
type Resolver struct {
	client *lrclib.Client
	remote bool

	mu    sync.Mutex
	cache map[string]*Lyrics // keyed "artist-title"
}

func NewResolver(remote bool) *Resolver {
	return &Resolver{
		client: lrclib.New(),
		remote: remote,
		cache:  make(map[string]*Lyrics),
	}
}

// NewResolverWithClient is used by tests to inject a stub API client.
func NewResolverWithClient(client *lrclib.Client) *Resolver {
	r := NewResolver(true)
	r.client = client
	return r
}

// Fetch resolves lyrics for a track.
func (r *Resolver) Fetch(ctx context.Context, track TrackInfo) FetchResult {
	if track.FilePath != "" {
		if lyrics := loadSidecar(track.FilePath); lyrics != nil {
			return FetchResult{Lyrics: lyrics, Source: "sidecar"}
		}
	}

	if track.Artist == "" || track.Title == "" {
		return FetchResult{Source: "not_found"}
	}

	key := cacheKey(track.Artist, track.Title)
	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return FetchResult{Lyrics: cached, Source: "cache"}
	}

	if !r.remote {
		return FetchResult{Source: "not_found"}
	}
	return r.fetchRemote(ctx, track, key)
}

// fetchRemote queries lrclib: the exact artist/title endpoint first,
// then a free-text search preferring the first candidate with synced
// lyrics, falling back to the first plain one.
func (r *Resolver) fetchRemote(ctx context.Context, track TrackInfo, key string) FetchResult {
	if res := r.exactRemote(ctx, track, key); res != nil {
		return *res
	}

	results, err := r.client.Search(ctx, track.Artist+" "+track.Title)
	if err != nil {
		if errors.Is(err, lrclib.ErrNotFound) {
			return FetchResult{Source: "not_found"}
		}
		return FetchResult{Source: "not_found", Err: err}
	}

	candidate := pickCandidate(results)
	if candidate == nil {
		return FetchResult{Source: "not_found"}
	}

	lyrics := fromResult(candidate)
	if lyrics == nil || len(lyrics.Lines) == 0 {
		return FetchResult{Source: "not_found"}
	}

	r.mu.Lock()
	r.cache[key] = lyrics
	r.mu.Unlock()

	return FetchResult{Lyrics: lyrics, Source: "remote"}
}

// exactRemote tries the exact-match endpoint. Nil means fall through
// to search: no record, or one without usable lyrics. Hard failures
// short-circuit with the error attached.
func (r *Resolver) exactRemote(ctx context.Context, track TrackInfo, key string) *FetchResult {
	result, err := r.client.Get(ctx, track.Artist, track.Title, track.Duration)
	if err != nil {
		if errors.Is(err, lrclib.ErrNotFound) {
			return nil
		}
		return &FetchResult{Source: "not_found", Err: err}
	}

	lyrics := fromResult(result)
	if lyrics == nil || len(lyrics.Lines) == 0 {
		return nil
	}

	r.mu.Lock()
	r.cache[key] = lyrics
	r.mu.Unlock()

	return &FetchResult{Lyrics: lyrics, Source: "remote"}
}

func pickCandidate(results []lrclib.LyricsResult) *lrclib.LyricsResult {
	for i := range results {
		if results[i].HasSyncedLyrics() {
			return &results[i]
		}
	}
	for i := range results {
		if results[i].HasPlainLyrics() {
			return &results[i]
		}
	}
	return nil
}

// fromResult converts an API record: synced lyrics go through the LRC
// parser, plain ones become unsynced zero-time lines.
func fromResult(result *lrclib.LyricsResult) *Lyrics {
	var lyrics *Lyrics
	switch {
	case result.HasSyncedLyrics():
		parsed, err := ParseLRC(strings.NewReader(result.SyncedLyrics))
		if err != nil {
			return nil
		}
		lyrics = parsed
	case result.HasPlainLyrics():
		lyrics = &Lyrics{}
		for line := range strings.SplitSeq(result.PlainLyrics, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lyrics.Lines = append(lyrics.Lines, newLine(0, line))
			}
		}
	default:
		return nil
	}

	if lyrics.Artist == "" {
		lyrics.Artist = result.ArtistName
	}
	if lyrics.Title == "" {
		lyrics.Title = result.TrackName
	}
	if lyrics.Album == "" {
		lyrics.Album = result.AlbumName
	}
	return lyrics
}

// loadSidecar reads song.lrc next to song.flac, if present.
func loadSidecar(audioPath string) *Lyrics {
	ext := filepath.Ext(audioPath)
	path := audioPath[:len(audioPath)-len(ext)] + ".lrc"

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	lyrics, err := ParseLRC(f)
	if err != nil || len(lyrics.Lines) == 0 {
		return nil
	}
	return lyrics
}

func cacheKey(artist, title string) string {
	return strings.ToLower(artist) + "-" + strings.ToLower(title)
}
