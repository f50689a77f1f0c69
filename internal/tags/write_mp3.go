package tags

import (
	"fmt"
	"strconv"

	"github.com/bogem/id3v2/v2"
)

// writeMP3Tags writes ID3v2 tags to an MP3 file.
func writeMP3Tags(path string, t *Tag) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer tag.Close()

	// ID3v2.4 with UTF-8 for Unicode support
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(t.Title)
	tag.SetArtist(t.Artist)
	tag.SetAlbum(t.Album)
	tag.SetGenre(t.Genre)

	if t.Year > 0 {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, strconv.Itoa(t.Year))
	}

	if t.TrackNumber > 0 {
		trackStr := strconv.Itoa(t.TrackNumber)
		if t.TotalTracks > 0 {
			trackStr += "/" + strconv.Itoa(t.TotalTracks)
		}
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, trackStr)
	}

	if t.DiscNumber > 0 {
		discStr := strconv.Itoa(t.DiscNumber)
		if t.TotalDiscs > 0 {
			discStr += "/" + strconv.Itoa(t.TotalDiscs)
		}
		tag.AddTextFrame(tag.CommonID("Part of a set"), id3v2.EncodingUTF8, discStr)
	}

	if t.AlbumArtist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), id3v2.EncodingUTF8, t.AlbumArtist)
	}

	if len(t.Artwork) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    detectMimeType(t.Artwork),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     t.Artwork,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}

	return nil
}
