// Package lyrics parses LRC files and resolves lyrics for tracks from
// sidecar files, an in-memory cache, and the lrclib API.
package lyrics

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// instrumentalMark flags a line as instrumental in LRC files.
const instrumentalMark = "♪"

// Line is a single lyric line.
type Line struct {
	Time         time.Duration
	Text         string
	Instrumental bool
}

// Lyrics contains parsed lyrics with optional metadata. synced records
// whether the source carried timestamps: plain lyrics converted to
// zero-time lines stay unsynced.
type Lyrics struct {
	Lines  []Line
	Title  string
	Artist string
	Album  string

	synced bool
}

// IsSynced reports whether the lines carry real timestamps.
func (l *Lyrics) IsSynced() bool {
	return len(l.Lines) > 0 && l.synced
}

// LineAt returns the index of the line active at the given position:
// the last line whose time is at or before pos. When lines exist but
// none qualifies yet, the first line is active; -1 only when empty.
func (l *Lyrics) LineAt(pos time.Duration) int {
	if len(l.Lines) == 0 {
		return -1
	}
	idx := 0
	for i, line := range l.Lines {
		if line.Time <= pos {
			idx = i
		} else {
			break
		}
	}
	return idx
}

var (
	// [00:12.34], [00:12:34] or [00:12]
	timestampRe = regexp.MustCompile(`\[(\d+):(\d+)(?:[.:](\d+))?\]`)

	// [ar:Artist Name]
	metadataRe = regexp.MustCompile(`^\[([a-z]+):(.+)\]$`)
)

// ParseLRC parses LRC format lyrics from a reader.
func ParseLRC(r io.Reader) (*Lyrics, error) {
	lyrics := &Lyrics{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if meta := metadataRe.FindStringSubmatch(line); meta != nil {
			switch strings.ToLower(meta[1]) {
			case "ar":
				lyrics.Artist = strings.TrimSpace(meta[2])
			case "ti":
				lyrics.Title = strings.TrimSpace(meta[2])
			case "al":
				lyrics.Album = strings.TrimSpace(meta[2])
			}
			continue
		}

		// A line may repeat under several timestamps:
		// [00:12.34][00:45.67]Text
		matches := timestampRe.FindAllStringSubmatchIndex(line, -1)
		if len(matches) == 0 {
			continue
		}

		lastMatch := matches[len(matches)-1]
		text := strings.TrimSpace(line[lastMatch[1]:])

		for _, match := range matches {
			ts, err := parseTimestamp(line[match[0]:match[1]])
			if err != nil {
				continue
			}
			lyrics.Lines = append(lyrics.Lines, newLine(ts, text))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lyrics.Lines, func(i, j int) bool {
		return lyrics.Lines[i].Time < lyrics.Lines[j].Time
	})
	lyrics.synced = len(lyrics.Lines) > 0

	return lyrics, nil
}

func newLine(ts time.Duration, text string) Line {
	instrumental := text == instrumentalMark ||
		strings.HasPrefix(text, instrumentalMark+" ")
	return Line{Time: ts, Text: text, Instrumental: instrumental}
}

// parseTimestamp parses [mm:ss.xx] into a Duration. A two-digit
// fraction is centiseconds, three digits are milliseconds.
func parseTimestamp(s string) (time.Duration, error) {
	matches := timestampRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, nil
	}

	minutes, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, err
	}

	var millis int
	if matches[3] != "" {
		millis, err = strconv.Atoi(matches[3])
		if err != nil {
			return 0, err
		}
		if len(matches[3]) == 2 {
			millis *= 10
		}
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
