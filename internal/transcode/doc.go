// Package transcode converts one album source file into an MP3.
//
// A Strategy exists per source format. MP3 sources are re-encoded by lame
// directly; Ogg Vorbis and FLAC sources are first decoded to an intermediate
// WAV file owned by a TempWAV guard, checked to be a valid RIFF/WAVE stream,
// and then encoded. Every failure removes the intermediate file and any
// partially written destination before it is reported.
//
// Key types:
//   - Strategy: per-format conversion
//   - Transcoder: format to strategy table
//   - TempWAV: intermediate file guard released on every path
//   - FailedError: failure with the step that caused it
package transcode
