package audio

import (
	"fmt"
	"strings"

	"albumconv/internal/services"
)

// Format identifies a supported source encoding.
type Format int

const (
	// Unknown is the zero value and never describes a supported file.
	Unknown Format = iota
	OggVorbis
	Flac
	Mp3
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{OggVorbis, Flac, Mp3}
}

// String returns the lower-case name used in logs and tables.
func (f Format) String() string {
	switch f {
	case OggVorbis:
		return "ogg-vorbis"
	case Flac:
		return "flac"
	case Mp3:
		return "mp3"
	default:
		return "unknown"
	}
}

// ParseFormat maps a name produced by String back to a Format.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ogg-vorbis", "ogg", "vorbis":
		return OggVorbis, true
	case "flac":
		return Flac, true
	case "mp3":
		return Mp3, true
	default:
		return Unknown, false
	}
}

// UnsupportedFormatError reports a file whose content is not Ogg Vorbis, FLAC
// or MP3. Detected carries a MIME diagnostic when one could be determined.
type UnsupportedFormatError struct {
	Path     string
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("unsupported audio format: %s", e.Path)
	}
	return fmt.Sprintf("unsupported audio format: %s (detected %s)", e.Path, e.Detected)
}

func (e *UnsupportedFormatError) Unwrap() error { return services.ErrValidation }

// MixedFormatError reports a batch whose files do not share one format.
type MixedFormatError struct {
	Path string
	Want Format
	Got  Format
}

func (e *MixedFormatError) Error() string {
	return fmt.Sprintf("mixed audio formats: %s is %s, batch is %s", e.Path, e.Got, e.Want)
}

func (e *MixedFormatError) Unwrap() error { return services.ErrValidation }
