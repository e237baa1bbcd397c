package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// Fixture stream parameters shared by every builder.
const (
	FixtureSampleRate = 44100
	FixtureChannels   = 2
	FixtureBitDepth   = 16
	FixtureBitrate    = 128000
)

// mpegFrameHeader is an MPEG-1 Layer III frame at 128 kbit/s, 44.1 kHz,
// stereo, without CRC or padding.
var mpegFrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

const mpegFrameSize = 417

// FLACFile writes a FLAC file carrying a STREAMINFO block, a Vorbis comment
// block holding the given KEY=value comments, and a few bytes of frame data.
func FLACFile(t testing.TB, path string, comments ...string) {
	t.Helper()

	block := flacvorbis.New()
	block.Vendor = "reference libFLAC 1.4.3 20230623"
	for _, comment := range comments {
		key, value, ok := strings.Cut(comment, "=")
		if !ok {
			t.Fatalf("malformed vorbis comment %q", comment)
		}
		if err := block.Add(key, value); err != nil {
			t.Fatalf("add vorbis comment %q: %v", comment, err)
		}
	}
	commentBlock := block.Marshal()

	file := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: streamInfo(FixtureSampleRate, FixtureChannels, FixtureBitDepth, 44100)},
			&commentBlock,
		},
		Frames: flac.FrameData{0xFF, 0xF8, 0x69, 0x08, 0x00, 0x00, 0x00},
	}
	writeBytes(t, path, file.Marshal())
}

func streamInfo(rate, channels, bitDepth int, samples int64) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint16(4096))
	_ = binary.Write(&buf, binary.BigEndian, uint16(4096))
	buf.Write([]byte{0, 0, 0})
	buf.Write([]byte{0, 0, 0})
	packed := uint64(rate)<<44 | uint64(channels-1)<<41 | uint64(bitDepth-1)<<36 | uint64(samples)&(1<<36-1)
	_ = binary.Write(&buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

// OggVorbisFile writes an Ogg stream whose first page carries a Vorbis
// identification header and whose second page carries a comment header with
// the given KEY=value comments.
func OggVorbisFile(t testing.TB, path string, comments ...string) {
	t.Helper()

	var ident bytes.Buffer
	ident.WriteByte(1)
	ident.WriteString("vorbis")
	_ = binary.Write(&ident, binary.LittleEndian, uint32(0))
	ident.WriteByte(FixtureChannels)
	_ = binary.Write(&ident, binary.LittleEndian, uint32(FixtureSampleRate))
	_ = binary.Write(&ident, binary.LittleEndian, uint32(0))
	_ = binary.Write(&ident, binary.LittleEndian, uint32(FixtureBitrate))
	_ = binary.Write(&ident, binary.LittleEndian, uint32(0))
	ident.WriteByte(0xB8)
	ident.WriteByte(1)

	var comment bytes.Buffer
	comment.WriteByte(3)
	comment.WriteString("vorbis")
	vendor := "Xiph.Org libVorbis I 20200704 (Reducing Environment)"
	_ = binary.Write(&comment, binary.LittleEndian, uint32(len(vendor)))
	comment.WriteString(vendor)
	_ = binary.Write(&comment, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		_ = binary.Write(&comment, binary.LittleEndian, uint32(len(c)))
		comment.WriteString(c)
	}
	comment.WriteByte(1)

	var out bytes.Buffer
	out.Write(oggPage(oggFlagBOS, 0, 0, ident.Bytes()))
	out.Write(oggPage(oggFlagEOS, 0, 1, comment.Bytes()))
	writeBytes(t, path, out.Bytes())
}

// OggOpusFile writes an Ogg stream carrying an Opus identification header.
func OggOpusFile(t testing.TB, path string) {
	t.Helper()

	var head bytes.Buffer
	head.WriteString("OpusHead")
	head.WriteByte(1)
	head.WriteByte(FixtureChannels)
	_ = binary.Write(&head, binary.LittleEndian, uint16(312))
	_ = binary.Write(&head, binary.LittleEndian, uint32(48000))
	_ = binary.Write(&head, binary.LittleEndian, uint16(0))
	head.WriteByte(0)
	writeBytes(t, path, oggPage(oggFlagBOS|oggFlagEOS, 0, 0, head.Bytes()))
}

const (
	oggFlagBOS = 2
	oggFlagEOS = 4
	oggSerial  = 0x1d2c3b4a
)

func oggPage(flags byte, granule int64, sequence uint32, packet []byte) []byte {
	var segments []byte
	remaining := len(packet)
	for remaining >= 255 {
		segments = append(segments, 255)
		remaining -= 255
	}
	segments = append(segments, byte(remaining))

	var page bytes.Buffer
	page.WriteString("OggS")
	page.WriteByte(0)
	page.WriteByte(flags)
	_ = binary.Write(&page, binary.LittleEndian, granule)
	_ = binary.Write(&page, binary.LittleEndian, uint32(oggSerial))
	_ = binary.Write(&page, binary.LittleEndian, sequence)
	_ = binary.Write(&page, binary.LittleEndian, uint32(0))
	page.WriteByte(byte(len(segments)))
	page.Write(segments)
	page.Write(packet)

	data := page.Bytes()
	binary.LittleEndian.PutUint32(data[22:26], oggChecksum(data))
	return data
}

var oggCRCTable = func() [256]uint32 {
	var table [256]uint32
	for i := range table {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}()

func oggChecksum(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc << 8) ^ oggCRCTable[byte(crc>>24)^b]
	}
	return crc
}

// ID3Frames describes the tag written in front of an MP3 fixture. Keys are
// four-character frame IDs, "TXXX:<description>" for user text frames, or
// "COMM" for an English comment.
type ID3Frames map[string]string

// MP3File writes frameCount MPEG audio frames, preceded by an ID3v2.4 tag
// when frames is non-empty.
func MP3File(t testing.TB, path string, frames ID3Frames, frameCount int) {
	t.Helper()

	var out bytes.Buffer
	if len(frames) > 0 {
		tag := id3v2.NewEmptyTag()
		tag.SetVersion(4)
		keys := make([]string, 0, len(frames))
		for key := range frames {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := frames[key]
			switch {
			case key == "COMM":
				tag.AddCommentFrame(id3v2.CommentFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Text:     value,
				})
			case strings.HasPrefix(key, "TXXX:"):
				tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
					Encoding:    id3v2.EncodingUTF8,
					Description: strings.TrimPrefix(key, "TXXX:"),
					Value:       value,
				})
			default:
				tag.AddTextFrame(key, id3v2.EncodingUTF8, value)
			}
		}
		if _, err := tag.WriteTo(&out); err != nil {
			t.Fatalf("render id3 tag: %v", err)
		}
	}
	out.Write(MPEGFrames(frameCount))
	writeBytes(t, path, out.Bytes())
}

// MPEGFrames returns n silent MPEG-1 Layer III frames.
func MPEGFrames(n int) []byte {
	if n <= 0 {
		n = 1
	}
	frame := make([]byte, mpegFrameSize)
	copy(frame, mpegFrameHeader)
	return bytes.Repeat(frame, n)
}

// WAVFile writes a short 16-bit PCM stereo RIFF/WAVE file.
func WAVFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, FixtureSampleRate, FixtureBitDepth, FixtureChannels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: FixtureChannels, SampleRate: FixtureSampleRate},
		Data:           make([]int, FixtureSampleRate/10*FixtureChannels),
		SourceBitDepth: FixtureBitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode wav %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize wav %s: %v", path, err)
	}
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
