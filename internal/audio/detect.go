package audio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhowden/tag"
	"github.com/gabriel-vasile/mimetype"
	flac "github.com/go-flac/go-flac"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// mpegProbeWindow bounds how far past any ID3v2 tag the MPEG frame scan reads.
const mpegProbeWindow = 64 << 10

// Detect classifies the file at path by content. Files that are readable but
// not Ogg Vorbis, FLAC or MP3 yield *UnsupportedFormatError.
func Detect(path string) (Format, error) {
	info, err := inspect(path)
	if err != nil {
		return Unknown, err
	}
	return info.Format, nil
}

// BatchFormat returns the format shared by every path. The first file sets the
// expected format; any later file that differs yields *MixedFormatError.
func BatchFormat(paths []string) (Format, error) {
	if len(paths) == 0 {
		return Unknown, errors.New("batch format: no files")
	}
	want := Unknown
	for _, path := range paths {
		got, err := Detect(path)
		if err != nil {
			return Unknown, err
		}
		if want == Unknown {
			want = got
			continue
		}
		if got != want {
			return Unknown, &MixedFormatError{Path: path, Want: want, Got: got}
		}
	}
	return want, nil
}

func inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		info Info
		ok   bool
	)
	_, fileType, idErr := tag.Identify(f)
	switch {
	case idErr != nil:
		// No container signature or tag; a bare MPEG stream is still valid.
		info, ok = probeMPEG(f)
	case fileType == tag.OGG:
		info, ok = probeOgg(f)
	case fileType == tag.FLAC:
		info, ok = probeFLAC(f)
	case fileType == tag.MP3:
		info, ok = probeMPEG(f)
	}
	if !ok {
		return Info{}, unsupported(path)
	}
	info.Path = path
	return info, nil
}

func unsupported(path string) error {
	detected := ""
	if mime, err := mimetype.DetectFile(path); err == nil && mime != nil {
		detected = mime.String()
	}
	return &UnsupportedFormatError{Path: path, Detected: detected}
}

func probeOgg(r io.ReadSeeker) (Info, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Info{}, false
	}
	format, err := oggvorbis.GetFormat(bufio.NewReader(r))
	if err != nil || format.SampleRate <= 0 {
		return Info{}, false
	}
	return Info{
		Format:     OggVorbis,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		Bitrate:    format.Bitrate.Nominal,
	}, true
}

func probeFLAC(r io.ReadSeeker) (Info, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Info{}, false
	}
	file, err := flac.ParseMetadata(bufio.NewReader(r))
	if err != nil || len(file.Meta) == 0 {
		return Info{}, false
	}
	stream, err := file.GetStreamInfo()
	if err != nil || stream.SampleRate <= 0 {
		return Info{}, false
	}
	return Info{
		Format:     Flac,
		SampleRate: stream.SampleRate,
		Channels:   stream.ChannelCount,
		BitDepth:   stream.BitDepth,
	}, true
}

func probeMPEG(r io.ReadSeeker) (Info, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Info{}, false
	}
	br := bufio.NewReader(r)
	if err := skipID3v2(br); err != nil {
		return Info{}, false
	}
	header, err := br.Peek(4)
	if err != nil || header[0] != 0xFF || header[1]&0xE0 != 0xE0 {
		return Info{}, false
	}
	channels := 2
	if header[3]>>6 == 3 {
		channels = 1
	}
	// The decoder must not see a Seeker, otherwise it scans the whole file
	// to compute the stream length.
	dec, err := mp3.NewDecoder(io.LimitReader(br, mpegProbeWindow))
	if err != nil || dec.SampleRate() <= 0 {
		return Info{}, false
	}
	return Info{
		Format:     Mp3,
		SampleRate: dec.SampleRate(),
		Channels:   channels,
	}, true
}

func skipID3v2(br *bufio.Reader) error {
	head, err := br.Peek(10)
	if err != nil || string(head[:3]) != "ID3" {
		return nil
	}
	size := int(head[6]&0x7f)<<21 | int(head[7]&0x7f)<<14 | int(head[8]&0x7f)<<7 | int(head[9]&0x7f)
	size += 10
	if head[5]&0x10 != 0 {
		size += 10
	}
	_, err = br.Discard(size)
	return err
}
