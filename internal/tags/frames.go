package tags

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"
)

// ID3v2.4 frame identifiers written by Translate.
const (
	FrameTitle       = "TIT2"
	FrameAlbum       = "TALB"
	FrameArtist      = "TPE1"
	FrameAlbumArtist = "TPE2"
	FrameGenre       = "TCON"
	FrameDate        = "TDRC"
	FrameTrack       = "TRCK"
	FrameDisc        = "TPOS"
	FrameISRC        = "TSRC"
	FrameComment     = "COMM"
	FrameUserText    = "TXXX"
)

const commentLanguage = "eng"

// valueSeparator joins multi-valued text frames as ID3v2.4 requires.
const valueSeparator = "\x00"

// Frame is one ID3 frame. Description is set for TXXX and COMM frames,
// Language only for COMM.
type Frame struct {
	ID          string
	Description string
	Language    string
	Values      []string
	// Latin1 prefers ISO-8859-1 when every value is representable in it.
	Latin1 bool
}

// Key identifies the frame within a FrameSet.
func (f Frame) Key() string {
	if f.Description == "" {
		return f.ID
	}
	return f.ID + ":" + f.Description
}

// Text returns the frame values joined for writing.
func (f Frame) Text() string {
	return strings.Join(f.Values, valueSeparator)
}

// Encoding returns the text encoding the frame is written with.
func (f Frame) Encoding() id3v2.Encoding {
	if f.Latin1 && isLatin1(f.Text()) {
		return id3v2.EncodingISO
	}
	return id3v2.EncodingUTF8
}

func (f Frame) framer() id3v2.Framer {
	switch f.ID {
	case FrameComment:
		return id3v2.CommentFrame{
			Encoding:    f.Encoding(),
			Language:    f.Language,
			Description: f.Description,
			Text:        f.Text(),
		}
	case FrameUserText:
		return id3v2.UserDefinedTextFrame{
			Encoding:    f.Encoding(),
			Description: f.Description,
			Value:       f.Text(),
		}
	default:
		return id3v2.TextFrame{Encoding: f.Encoding(), Text: f.Text()}
	}
}

func isLatin1(s string) bool {
	_, err := charmap.ISO8859_1.NewEncoder().String(s)
	return err == nil
}

// FrameSet is an ordered collection of frames with unique keys, sorted by key.
type FrameSet struct {
	frames []Frame
}

func newFrameSet(frames []Frame) FrameSet {
	byKey := make(map[string]Frame, len(frames))
	for _, frame := range frames {
		byKey[frame.Key()] = frame
	}
	sorted := make([]Frame, 0, len(byKey))
	for _, frame := range byKey {
		sorted = append(sorted, frame)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key() < sorted[j].Key() })
	return FrameSet{frames: sorted}
}

// Frames returns a copy of the frames in key order.
func (s FrameSet) Frames() []Frame {
	return append([]Frame(nil), s.frames...)
}

// Len returns the number of frames.
func (s FrameSet) Len() int { return len(s.frames) }

// Get returns the frame stored under key ("TIT2", "TXXX:TRACKTOTAL").
func (s FrameSet) Get(key string) (Frame, bool) {
	idx := sort.Search(len(s.frames), func(i int) bool { return s.frames[i].Key() >= key })
	if idx < len(s.frames) && s.frames[idx].Key() == key {
		return s.frames[idx], true
	}
	return Frame{}, false
}

// Keys returns frame keys in order.
func (s FrameSet) Keys() []string {
	keys := make([]string, len(s.frames))
	for i, frame := range s.frames {
		keys[i] = frame.Key()
	}
	return keys
}

// Bytes renders the set canonically: each frame key, body size and encoded
// ID3v2.4 body, in key order.
func (s FrameSet) Bytes() []byte {
	var buf bytes.Buffer
	for _, frame := range s.frames {
		buf.WriteString(frame.Key())
		buf.WriteByte(0)
		body := frame.framer()
		buf.WriteString(strconv.Itoa(body.Size()))
		buf.WriteByte(0)
		_, _ = body.WriteTo(&buf)
	}
	return buf.Bytes()
}

// Translate maps generic metadata onto ID3v2.4 frames. Only fields present in
// meta produce frames.
func Translate(meta Metadata) FrameSet {
	var frames []Frame
	text := func(id, field string, latin1 bool) {
		if values := meta.Values(field); len(values) > 0 {
			frames = append(frames, Frame{ID: id, Values: values, Latin1: latin1})
		}
	}
	userText := func(description string, values []string) {
		if len(values) > 0 {
			frames = append(frames, Frame{ID: FrameUserText, Description: description, Values: values})
		}
	}

	text(FrameTitle, "title", false)
	text(FrameAlbum, "album", false)
	text(FrameArtist, "artist", false)
	switch {
	case meta.Has("album artist"):
		text(FrameAlbumArtist, "album artist", false)
	case meta.Has("albumartist"):
		text(FrameAlbumArtist, "albumartist", false)
	}
	text(FrameGenre, "genre", false)
	text(FrameDate, "date", true)

	if number, total, ok := splitPosition(meta.First("tracknumber")); ok {
		frames = append(frames, Frame{ID: FrameTrack, Values: []string{number}, Latin1: true})
		if total != "" && !meta.Has("tracktotal") {
			userText("TRACKTOTAL", []string{total})
		}
	}
	userText("TRACK", meta.Values("track"))
	userText("TRACKNUM", meta.Values("tracknum"))
	userText("TRACKTOTAL", meta.Values("tracktotal"))

	if number, total, ok := splitPosition(meta.First("discnumber")); ok {
		frames = append(frames, Frame{ID: FrameDisc, Values: []string{number}, Latin1: true})
		if total != "" && !meta.Has("disctotal") {
			userText("DISCTOTAL", []string{total})
		}
	}
	userText("DISCTOTAL", meta.Values("disctotal"))

	text(FrameISRC, "isrc", false)

	comment := meta.Values("comment")
	if len(comment) == 0 {
		comment = meta.Values("description")
	}
	if len(comment) > 0 {
		frames = append(frames, Frame{ID: FrameComment, Language: commentLanguage, Values: comment})
	}
	userText("DESCRIPTION", meta.Values("description"))
	userText("ITUNES_CDDB_1", meta.Values("itunes_cddb_1"))

	return newFrameSet(frames)
}

// splitPosition parses "n" or "n/total". The number is reduced to its numeric
// prefix without leading zeros; ok is false when no leading digits exist.
func splitPosition(value string) (number, total string, ok bool) {
	value = strings.TrimSpace(value)
	head, tail, _ := strings.Cut(value, "/")
	number, ok = leadingNumber(head)
	if !ok {
		return "", "", false
	}
	total, _ = leadingNumber(tail)
	return number, total, true
}

func leadingNumber(value string) (string, bool) {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}
	n, err := strconv.ParseUint(value[:end], 10, 32)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}
