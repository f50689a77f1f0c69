package lyrics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Lyrics {
	t.Helper()
	l, err := ParseLRC(strings.NewReader(src))
	require.NoError(t, err)
	return l
}

func TestParseLRCBasics(t *testing.T) {
	l := parse(t, `[ti:Song]
[ar:Artist]
[al:Album]

[00:12.00]First line
[00:45.50]Second line
`)

	assert.Equal(t, "Song", l.Title)
	assert.Equal(t, "Artist", l.Artist)
	assert.Equal(t, "Album", l.Album)
	require.Len(t, l.Lines, 2)
	assert.Equal(t, 12*time.Second, l.Lines[0].Time)
	assert.Equal(t, 45*time.Second+500*time.Millisecond, l.Lines[1].Time)
	assert.True(t, l.IsSynced())
}

func TestParseTimestampFractions(t *testing.T) {
	// Two digits are centiseconds, three are milliseconds; .45 and
	// .450 both mean 450ms.
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"[02:03.45]", 2*time.Minute + 3*time.Second + 450*time.Millisecond},
		{"[02:03.450]", 2*time.Minute + 3*time.Second + 450*time.Millisecond},
		{"[02:03]", 2*time.Minute + 3*time.Second},
		{"[02:03:45]", 2*time.Minute + 3*time.Second + 450*time.Millisecond},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRoundTrip123_45(t *testing.T) {
	l := parse(t, "[02:03.45]Line\n")
	require.Len(t, l.Lines, 1)
	assert.Equal(t, 123450*time.Millisecond, l.Lines[0].Time)
}

func TestMultipleTimestampsPerLine(t *testing.T) {
	l := parse(t, "[00:10.00][00:30.00]Chorus\n[00:20.00]Verse\n")
	require.Len(t, l.Lines, 3)
	// Sorted ascending even when timestamps interleave across lines.
	assert.Equal(t, "Chorus", l.Lines[0].Text)
	assert.Equal(t, "Verse", l.Lines[1].Text)
	assert.Equal(t, "Chorus", l.Lines[2].Text)
}

func TestInstrumentalLines(t *testing.T) {
	l := parse(t, "[00:01.00]♪\n[00:05.00]♪ guitar solo\n[00:10.00]Words\n")
	require.Len(t, l.Lines, 3)
	assert.True(t, l.Lines[0].Instrumental)
	assert.True(t, l.Lines[1].Instrumental)
	assert.False(t, l.Lines[2].Instrumental)
}

func TestLineAt(t *testing.T) {
	l := parse(t, "[00:10.00]A\n[00:20.00]B\n[00:30.00]C\n")

	assert.Equal(t, 0, l.LineAt(5*time.Second)) // before first: first is active
	assert.Equal(t, 0, l.LineAt(10*time.Second))
	assert.Equal(t, 1, l.LineAt(25*time.Second))
	assert.Equal(t, 2, l.LineAt(time.Hour))

	empty := &Lyrics{}
	assert.Equal(t, -1, empty.LineAt(time.Second))
}

func TestIsSyncedPlainConversion(t *testing.T) {
	plain := &Lyrics{Lines: []Line{newLine(0, "Just text")}}
	assert.False(t, plain.IsSynced())

	synced := parse(t, "[00:00.00]Start\n")
	assert.True(t, synced.IsSynced())
}
