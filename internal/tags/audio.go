package tags

import (
	"errors"
	"fmt"
	"os"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// Codec labels reported by the audio probe.
const (
	CodecPCM     = "PCM"
	CodecAAC     = "AAC"
	CodecMP3     = "MP3"
	CodecALAC    = "ALAC"
	CodecFLAC    = "FLAC"
	CodecUnknown = "Unknown"
)

// ReadAudioInfo reads audio stream properties (duration, codec, sample rate).
// This uses lighter-weight methods than full decoding where possible.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := lowerExt(path)
	if !scanExtensions[ext] {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	var info *AudioInfo
	var err error

	switch ext {
	case ExtMP3:
		info, err = readMP3AudioInfo(path)
	case ExtFLAC:
		info, err = readFLACStreamInfo(path)
	case ExtM4A, ExtALAC, ExtAAC:
		info, err = readM4AAudioInfo(path)
	default:
		info, err = readTaglibAudioInfo(path, ext)
	}
	if err != nil {
		// Generic probe as last resort for any container
		info, err = readTaglibAudioInfo(path, ext)
		if err != nil {
			return nil, err
		}
	}

	if info.Bitrate == 0 {
		info.Bitrate = estimateBitrate(path, info.Duration)
	}
	return info, nil
}

// readMP3AudioInfo extracts audio info from an MP3 file without decoding it.
func readMP3AudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)
	duration := time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second))

	return &AudioInfo{
		Duration:   duration,
		Codec:      CodecMP3,
		SampleRate: sampleRate,
		Channels:   2,
		BitDepth:   16, // MP3 decodes to 16-bit
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	flacFile, err := goflac.ParseFile(path)
	if err != nil {
		// Try beep's decoder for files with prepended ID3 tags
		return readFLACWithBeep(path)
	}

	for _, meta := range flacFile.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data

		// Streaminfo packs sample rate (20 bits), channels (3 bits) and
		// bits-per-sample (5 bits) into bytes 10-13, total samples after.
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		channels := (int(data[12])>>1)&0x07 + 1
		bitsPerSample := (int(data[12])&0x01)<<4 | int(data[13])>>4 + 1
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])

		duration := time.Duration(0)
		if sampleRate > 0 {
			duration = time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
		}

		return &AudioInfo{
			Duration:   duration,
			Codec:      CodecFLAC,
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   bitsPerSample,
		}, nil
	}

	return readFLACWithBeep(path)
}

// readFLACWithBeep uses beep's FLAC decoder as fallback.
func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Codec:      CodecFLAC,
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		BitDepth:   format.Precision * 8,
	}, nil
}

// readM4AAudioInfo extracts audio info from an M4A/MP4 container.
func readM4AAudioInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	container, err := m4a.Open(f)
	if err != nil {
		return nil, err
	}

	codec := CodecUnknown
	switch container.Codec() {
	case m4a.CodecAAC:
		codec = CodecAAC
	case m4a.CodecALAC:
		codec = CodecALAC
	}

	bitDepth := 16
	if container.Codec() == m4a.CodecALAC && container.SampleSize() == 24 {
		bitDepth = 24
	}

	return &AudioInfo{
		Duration:   container.Duration(),
		Codec:      codec,
		SampleRate: int(container.SampleRate()),
		Channels:   2,
		BitDepth:   bitDepth,
	}, nil
}

// readTaglibAudioInfo probes stream properties via TagLib. Used for WAV,
// AIFF, OGG and WMA, and as the generic fallback for corrupt containers.
func readTaglibAudioInfo(path, ext string) (*AudioInfo, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, err
	}

	codec := CodecUnknown
	switch ext {
	case ExtWAV, ExtAIFF:
		codec = CodecPCM
	case ExtMP3:
		codec = CodecMP3
	case ExtFLAC:
		codec = CodecFLAC
	case ExtAAC, ExtM4A:
		codec = CodecAAC
	case ExtALAC:
		codec = CodecALAC
	}

	return &AudioInfo{
		Duration:   props.Length,
		Codec:      codec,
		SampleRate: int(props.SampleRate),
		Channels:   int(props.Channels),
		Bitrate:    int(props.Bitrate),
	}, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
// Some taggers prepend ID3v2 to FLAC files, which the decoder rejects.
func skipID3v2(f *os.File) error {
	header := make([]byte, 10)
	n, err := f.Read(header)
	if err != nil || n < 10 || string(header[0:3]) != id3Magic {
		_, serr := f.Seek(0, 0)
		return serr
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = f.Seek(10+size, 0)
	return err
}

// estimateBitrate derives an average bitrate in kbit/s from file size.
func estimateBitrate(path string, duration time.Duration) int {
	if duration <= 0 {
		return 0
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return int(float64(fi.Size()*8) / duration.Seconds() / 1000)
}
