package tags

import (
	"fmt"
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// writeFLACTags writes Vorbis comments and picture to a FLAC file.
func writeFLACTags(path string, t *Tag) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	// Find existing VORBIS_COMMENT block index (if any)
	cmtIdx := -1
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmtIdx = i
			break
		}
	}

	// Always create a fresh comment block to avoid duplicate tags
	cmts := flacvorbis.New()

	addTag := func(key, value string) error {
		if value != "" {
			return cmts.Add(key, value)
		}
		return nil
	}
	addIntTag := func(key string, value int) error {
		if value > 0 {
			return cmts.Add(key, strconv.Itoa(value))
		}
		return nil
	}

	if err := addTag("TITLE", t.Title); err != nil {
		return fmt.Errorf("add title: %w", err)
	}
	if err := addTag("ARTIST", t.Artist); err != nil {
		return fmt.Errorf("add artist: %w", err)
	}
	if err := addTag("ALBUM", t.Album); err != nil {
		return fmt.Errorf("add album: %w", err)
	}
	if err := addTag("ALBUMARTIST", t.AlbumArtist); err != nil {
		return fmt.Errorf("add album artist: %w", err)
	}
	if err := addTag("GENRE", t.Genre); err != nil {
		return fmt.Errorf("add genre: %w", err)
	}
	if err := addIntTag("DATE", t.Year); err != nil {
		return fmt.Errorf("add date: %w", err)
	}
	if err := addIntTag("TRACKNUMBER", t.TrackNumber); err != nil {
		return fmt.Errorf("add track number: %w", err)
	}
	if err := addIntTag("TOTALTRACKS", t.TotalTracks); err != nil {
		return fmt.Errorf("add total tracks: %w", err)
	}
	if err := addIntTag("DISCNUMBER", t.DiscNumber); err != nil {
		return fmt.Errorf("add disc number: %w", err)
	}
	if err := addIntTag("TOTALDISCS", t.TotalDiscs); err != nil {
		return fmt.Errorf("add total discs: %w", err)
	}

	cmtBlock := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtBlock
	} else {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if len(t.Artwork) > 0 {
		// Replace any existing picture blocks
		newMeta := make([]*flac.MetaDataBlock, 0, len(f.Meta))
		for _, meta := range f.Meta {
			if meta.Type != flac.Picture {
				newMeta = append(newMeta, meta)
			}
		}
		f.Meta = newMeta

		pic, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover,
			"Front Cover",
			t.Artwork,
			detectMimeType(t.Artwork),
		)
		if err != nil {
			return fmt.Errorf("create picture: %w", err)
		}
		picBlock := pic.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	return nil
}
