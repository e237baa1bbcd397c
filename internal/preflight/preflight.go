package preflight

import (
	"albumconv/internal/config"
	"albumconv/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ToolRequirements lists the external executables named by cfg, grouped by
// the pipeline step that needs them.
func ToolRequirements(cfg *config.Config) []deps.Requirement {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return []deps.Requirement{
		{Name: "vorbisgain", Command: cfg.Tools.VorbisGain, Description: "Album gain for Ogg Vorbis sources"},
		{Name: "metaflac", Command: cfg.Tools.Metaflac, Description: "Album ReplayGain for FLAC sources"},
		{Name: "aacgain", Command: cfg.Tools.AACGain, Description: "Album gain for MP3 sources"},
		{Name: "lame", Command: cfg.Tools.Lame, Description: "MP3 encoding (all sources)"},
		{Name: "ogg123", Command: cfg.Tools.Ogg123, Description: "Ogg Vorbis decoding to WAV"},
		{Name: "flac", Command: cfg.Tools.Flac, Description: "FLAC decoding to WAV"},
	}
}

// CheckSystemDeps evaluates every external tool named by cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(ToolRequirements(cfg))
}
