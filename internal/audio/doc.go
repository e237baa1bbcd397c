// Package audio identifies the encoding of album source files from their
// content.
//
// Detection never trusts file extensions. Container signatures are recognized
// with dhowden/tag and then confirmed by parsing the stream headers: the
// Vorbis identification packet for Ogg, the STREAMINFO block for FLAC, and a
// decodable MPEG audio frame for MP3.
//
// Key types:
//   - Format: closed set of supported source encodings
//   - Info: stream parameters reported by Probe
//   - UnsupportedFormatError / MixedFormatError: validation failures
//
// Primary entry points:
//   - Detect: classify one file
//   - BatchFormat: require a homogeneous batch and return its format
//   - Probe: classify and report sample rate, channels, and MIME type
package audio
