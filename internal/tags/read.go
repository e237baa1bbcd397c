package tags

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
	"github.com/jfreymuth/oggvorbis"

	"albumconv/internal/audio"
)

// id3Fields maps ID3v2.2, v2.3 and v2.4 text frame IDs onto generic field
// names.
var id3Fields = map[string]string{
	"TIT2": "title", "TT2": "title",
	"TALB": "album", "TAL": "album",
	"TPE1": "artist", "TP1": "artist",
	"TPE2": "album artist", "TP2": "album artist",
	"TCON": "genre", "TCO": "genre",
	"TDRC": "date", "TYER": "date", "TYE": "date",
	"TRCK": "tracknumber", "TRK": "tracknumber",
	"TPOS": "discnumber", "TPA": "discnumber",
	"TSRC": "isrc", "TRC": "isrc",
}

// Read detects the format of path and returns its metadata.
func Read(path string) (Metadata, error) {
	format, err := audio.Detect(path)
	if err != nil {
		return nil, err
	}
	return ReadFormat(path, format)
}

// ReadFormat returns the metadata of path, which is known to be format.
func ReadFormat(path string, format audio.Format) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case audio.Flac:
		return readFLAC(f)
	case audio.OggVorbis:
		return readOgg(f)
	case audio.Mp3:
		return readID3(f)
	default:
		return nil, &audio.UnsupportedFormatError{Path: path}
	}
}

func readFLAC(f *os.File) (Metadata, error) {
	file, err := flac.ParseMetadata(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("parse flac metadata: %w", err)
	}
	meta := Metadata{}
	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comments, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comments: %w", err)
		}
		for _, comment := range comments.Comments {
			meta.addComment(comment)
		}
	}
	return meta, nil
}

func readOgg(f *os.File) (Metadata, error) {
	header, err := oggvorbis.GetCommentHeader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read vorbis comment header: %w", err)
	}
	meta := Metadata{}
	for _, comment := range header.Comments {
		meta.addComment(comment)
	}
	return meta, nil
}

// readID3 reads ID3v2.3 and v2.4 frames with id3v2, which keeps the NUL
// separators of multi-value text frames. ID3v1 and ID3v2.2 tags are left to
// dhowden/tag.
func readID3(f *os.File) (Metadata, error) {
	parsed, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
	if err == nil && parsed.HasFrames() {
		return fromID3v2(parsed.AllFrames()), nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", f.Name(), err)
	}
	return readLegacyID3(f)
}

func fromID3v2(frames map[string][]id3v2.Framer) Metadata {
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	meta := Metadata{}
	for _, id := range ids {
		for _, framer := range frames[id] {
			switch frame := framer.(type) {
			case id3v2.TextFrame:
				addText(meta, id, frame.Text)
			case *id3v2.TextFrame:
				addText(meta, id, frame.Text)
			case id3v2.UserDefinedTextFrame:
				addValues(meta, frame.Description, frame.Value)
			case *id3v2.UserDefinedTextFrame:
				addValues(meta, frame.Description, frame.Value)
			case id3v2.CommentFrame:
				addCommentFrame(meta, frame)
			case *id3v2.CommentFrame:
				addCommentFrame(meta, *frame)
			}
		}
	}
	return meta
}

func addText(meta Metadata, id, text string) {
	if field, ok := id3Fields[id]; ok {
		addValues(meta, field, text)
	}
}

func addCommentFrame(meta Metadata, frame id3v2.CommentFrame) {
	if frame.Description == "" {
		addValues(meta, "comment", frame.Text)
	}
}

// addValues stores each NUL-separated value of text under field. A single
// trailing terminator is not a value of its own.
func addValues(meta Metadata, field, text string) {
	values := strings.Split(text, valueSeparator)
	if n := len(values); n > 1 && values[n-1] == "" {
		values = values[:n-1]
	}
	for _, v := range values {
		meta.Add(field, v)
	}
}

func readLegacyID3(f *os.File) (Metadata, error) {
	parsed, err := tag.ReadFrom(f)
	if err == tag.ErrNoTagsFound {
		return Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read id3 tag: %w", err)
	}
	if parsed.Format() == tag.ID3v1 {
		return fromID3v1(parsed), nil
	}

	meta := Metadata{}
	raw := parsed.Raw()
	for _, name := range sortedKeys(raw) {
		id := frameID(name)
		switch value := raw[name].(type) {
		case string:
			if field, ok := id3Fields[id]; ok {
				meta.Add(field, value)
			}
		case *tag.Comm:
			switch id {
			case "TXXX", "TXX":
				meta.Add(value.Description, value.Text)
			case "COMM", "COM":
				if value.Description == "" {
					meta.Add("comment", value.Text)
				}
			}
		}
	}
	return meta, nil
}

// fromID3v1 keeps only non-blank fields: ID3v1 pads every field, so an
// empty one is absent.
func fromID3v1(parsed tag.Metadata) Metadata {
	meta := Metadata{}
	add := func(field, value string) {
		if strings.TrimSpace(value) != "" {
			meta.Add(field, value)
		}
	}
	add("title", parsed.Title())
	add("artist", parsed.Artist())
	add("album", parsed.Album())
	add("genre", parsed.Genre())
	if year := parsed.Year(); year > 0 {
		add("date", strconv.Itoa(year))
	}
	if track, _ := parsed.Track(); track > 0 {
		add("tracknumber", strconv.Itoa(track))
	}
	add("comment", parsed.Comment())
	return meta
}

// frameID strips the "_N" suffix dhowden/tag appends to repeated frames.
func frameID(name string) string {
	id, _ := splitFrameName(name)
	return id
}

func splitFrameName(name string) (string, int) {
	idx := strings.IndexByte(name, '_')
	if idx <= 0 {
		return name, -1
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return name, -1
	}
	return name[:idx], n
}

// sortedKeys orders frames by ID and then by occurrence.
func sortedKeys(raw map[string]interface{}) []string {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		idI, nI := splitFrameName(keys[i])
		idJ, nJ := splitFrameName(keys[j])
		if idI != idJ {
			return idI < idJ
		}
		return nI < nJ
	})
	return keys
}
