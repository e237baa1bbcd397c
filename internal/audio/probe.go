package audio

import "github.com/gabriel-vasile/mimetype"

// Info describes a detected source file. Zero numeric fields mean the value is
// not carried by the stream headers.
type Info struct {
	Path       string
	Format     Format
	SampleRate int
	Channels   int
	BitDepth   int
	Bitrate    int
	MIME       string
}

// Probe detects the format of path and reports its stream parameters.
func Probe(path string) (Info, error) {
	info, err := inspect(path)
	if err != nil {
		return Info{}, err
	}
	if mime, err := mimetype.DetectFile(path); err == nil && mime != nil {
		info.MIME = mime.String()
	}
	return info, nil
}
