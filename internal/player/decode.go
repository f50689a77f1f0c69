package player

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/evrardt/muse/internal/tags"
)

// trackStream is one decoded track and the resources backing it.
type trackStream struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (t *trackStream) close() {
	if t == nil {
		return
	}
	if t.streamer != nil {
		t.streamer.Close()
	}
	if t.file != nil {
		t.file.Close()
	}
}

// openTrack opens and decodes a file, classifying every failure.
func openTrack(path string) (*trackStream, error) {
	ext := lowerExt(path)
	if !decodableExtensions[ext] {
		return nil, newError(ErrUnsupportedFormat, path, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrFileNotFound, path, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case tags.ExtMP3:
		streamer, format, err = mp3.Decode(f)
	case tags.ExtFLAC:
		// Some taggers prepend ID3v2 to FLAC files, which the FLAC
		// decoder does not tolerate.
		if err = skipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case tags.ExtWAV:
		streamer, format, err = wav.Decode(f)
	case tags.ExtOGG:
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, newError(ErrDecodeFailed, path, err)
	}

	return &trackStream{path: path, file: f, streamer: streamer, format: format}, nil
}

var decodableExtensions = map[string]bool{
	tags.ExtMP3:  true,
	tags.ExtFLAC: true,
	tags.ExtWAV:  true,
	tags.ExtOGG:  true,
}

func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// skipID3v2 advances past an ID3v2 tag when one sits at the start of
// the stream, rewinding otherwise.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil || n < 10 || string(header[:3]) != "ID3" {
		_, seekErr := r.Seek(0, io.SeekStart)
		return seekErr
	}

	// Syncsafe size: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
