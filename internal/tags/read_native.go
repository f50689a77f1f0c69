package tags

import (
	"strings"

	"go.senan.xyz/taglib"
)

// semantic field identifiers for the native-key tables.
type field int

const (
	fieldTitle field = iota
	fieldArtist
	fieldAlbum
	fieldAlbumArtist
	fieldComposer
	fieldCopyright
	fieldComment
	fieldGenre
	fieldEncoder
	fieldYear
	fieldTrack
	fieldDisc
	fieldBPM
)

// nativeKeyTable maps known native tag keys to semantic fields in priority
// order: the first match per field wins. The substring table below is an
// explicit lowest-priority pass for containers whose tag vocabulary is
// unknown, so precedence stays auditable.
var nativeKeyTable = []struct {
	key string
	f   field
}{
	{taglib.Title, fieldTitle},
	{taglib.Artist, fieldArtist},
	{taglib.Album, fieldAlbum},
	{taglib.AlbumArtist, fieldAlbumArtist},
	{"ALBUM ARTIST", fieldAlbumArtist},
	{taglib.Composer, fieldComposer},
	{"COPYRIGHT", fieldCopyright},
	{taglib.Comment, fieldComment},
	{taglib.Genre, fieldGenre},
	{"ENCODER", fieldEncoder},
	{"ENCODED-BY", fieldEncoder},
	{taglib.Date, fieldYear},
	{"YEAR", fieldYear},
	{taglib.TrackNumber, fieldTrack},
	{"TRACK", fieldTrack},
	{taglib.DiscNumber, fieldDisc},
	{"DISC", fieldDisc},
	{"BPM", fieldBPM},
	{"TEMPO", fieldBPM},
}

var substringKeyTable = []struct {
	sub string
	f   field
}{
	{"title", fieldTitle},
	{"albumartist", fieldAlbumArtist},
	{"album", fieldAlbum},
	{"artist", fieldArtist},
	{"composer", fieldComposer},
	{"copyright", fieldCopyright},
	{"comment", fieldComment},
	{"genre", fieldGenre},
	{"encoder", fieldEncoder},
	{"year", fieldYear},
	{"date", fieldYear},
	{"track", fieldTrack},
	{"disc", fieldDisc},
	{"bpm", fieldBPM},
}

// readNativeTags is the catch-all native reader for containers without a
// dedicated reader (M4A atoms, WMA, WAV info chunks, ...). Resolved values
// take priority over the common tag set.
func readNativeTags(path string, t *Tag) {
	rawTags, err := taglib.ReadTags(path)
	if err != nil {
		return
	}

	resolved := resolveNativeFields(rawTags)
	applyNativeFields(resolved, t)
}

// resolveNativeFields picks one value per semantic field: the explicit key
// table first, then the substring pass for still-unresolved fields.
func resolveNativeFields(rawTags map[string][]string) map[field]string {
	upper := make(map[string]string, len(rawTags))
	for key, values := range rawTags {
		if len(values) > 0 && values[0] != "" {
			upper[strings.ToUpper(key)] = values[0]
		}
	}

	resolved := make(map[field]string)
	for _, entry := range nativeKeyTable {
		if _, done := resolved[entry.f]; done {
			continue
		}
		if v, ok := upper[strings.ToUpper(entry.key)]; ok {
			resolved[entry.f] = v
		}
	}

	for _, entry := range substringKeyTable {
		if _, done := resolved[entry.f]; done {
			continue
		}
		for key, v := range upper {
			if strings.Contains(strings.ToLower(key), entry.sub) {
				resolved[entry.f] = v
				break
			}
		}
	}

	return resolved
}

func applyNativeFields(resolved map[field]string, t *Tag) {
	if v := resolved[fieldTitle]; v != "" {
		t.Title = v
	}
	if v := resolved[fieldArtist]; v != "" {
		t.Artist = v
	}
	if v := resolved[fieldAlbum]; v != "" {
		t.Album = v
	}
	if v := resolved[fieldAlbumArtist]; v != "" {
		t.AlbumArtist = v
	}
	if v := resolved[fieldComposer]; v != "" {
		t.Composer = v
	}
	if v := resolved[fieldCopyright]; v != "" {
		t.Copyright = v
	}
	if v := resolved[fieldComment]; v != "" {
		t.Comment = v
	}
	if v := resolved[fieldGenre]; v != "" {
		t.Genre = v
	}
	if v := resolved[fieldEncoder]; v != "" {
		t.Encoder = v
	}
	if y := parseYear(resolved[fieldYear]); y > 0 {
		t.Year = y
	}
	if num, total := parseNumberPair(resolved[fieldTrack]); num > 0 {
		t.TrackNumber = num
		if total > 0 {
			t.TotalTracks = total
		}
	}
	if num, total := parseNumberPair(resolved[fieldDisc]); num > 0 {
		t.DiscNumber = num
		if total > 0 {
			t.TotalDiscs = total
		}
	}
	if num, _ := parseNumberPair(resolved[fieldBPM]); num > 0 {
		t.BPM = num
	}
}
