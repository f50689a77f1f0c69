// Package tags provides unified tag reading and writing for music files.
// Extraction is layered: audio stream probe, normalized common tags,
// format-native frames/atoms, then filename heuristics as the last resort.
package tags

import (
	"strconv"
	"strings"
	"time"
)

// File extensions recognized by the library scanner.
const (
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtALAC = ".alac"
	ExtWAV  = ".wav"
	ExtAIFF = ".aiff"
	ExtMP3  = ".mp3"
	ExtAAC  = ".aac"
	ExtOGG  = ".ogg"
	ExtWMA  = ".wma"
)

// Default values used when extraction cannot determine a field.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

var scanExtensions = map[string]bool{
	ExtFLAC: true,
	ExtM4A:  true,
	ExtALAC: true,
	ExtWAV:  true,
	ExtAIFF: true,
	ExtMP3:  true,
	ExtAAC:  true,
	ExtOGG:  true,
	ExtWMA:  true,
}

var writeExtensions = map[string]bool{
	ExtMP3:  true,
	ExtM4A:  true,
	ExtAAC:  true,
	ExtALAC: true,
	ExtFLAC: true,
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	return scanExtensions[lowerExt(path)]
}

// IsWritable returns true if tag write-back is supported for the path.
func IsWritable(path string) bool {
	return writeExtensions[lowerExt(path)]
}

func lowerExt(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return strings.ToLower(path[idx:])
	}
	return ""
}

// Tag contains all metadata extracted from one music file.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Composer    string
	Copyright   string
	Comment     string
	Encoder     string

	Year        int
	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int
	BPM         int

	// Artwork is owned by the Tag; callers must not mutate it.
	Artwork     []byte
	ArtworkMIME string

	AudioInfo
}

// AudioInfo contains audio stream properties (not tags).
type AudioInfo struct {
	Duration   time.Duration
	Codec      string // PCM, AAC, MP3, ALAC, FLAC, Unknown
	SampleRate int
	Channels   int
	BitDepth   int
	Bitrate    int // kbit/s
}

// parseNumberPair parses a track/disc number that may be "N" or "N/M" format.
func parseNumberPair(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	if idx := strings.Index(s, "/"); idx > 0 {
		num, _ = strconv.Atoi(s[:idx])
		total, _ = strconv.Atoi(s[idx+1:])
		return num, total
	}
	num, _ = strconv.Atoi(s)
	return num, 0
}

// parseYear extracts a year from a date string (YYYY, YYYY-MM-DD, ...).
func parseYear(s string) int {
	if len(s) > 4 {
		s = s[:4]
	}
	y, _ := strconv.Atoi(s)
	return y
}
