// Package tags carries descriptive metadata from album source files onto the
// converted MP3s.
//
// Reading is format specific: Vorbis comments from FLAC metadata blocks and
// Ogg comment headers, ID3 frames from MP3 sources. Every reader produces the
// same generic Metadata keyed by lower-case field name. Translate maps that
// metadata onto a fixed set of ID3v2.4 frames and Write replaces the tag of the
// destination file with them.
//
// Key types:
//   - Metadata: generic multi-valued field map
//   - Frame / FrameSet: deterministic, key-sorted ID3 frames
//
// Primary entry points:
//   - Read / ReadFormat: source metadata
//   - Translate: field to frame mapping
//   - Write: tag replacement on the destination
package tags
