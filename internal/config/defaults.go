package config

const (
	defaultConfigPath       = "~/.config/albumconv/config.toml"
	projectConfigName       = "albumconv.toml"
	defaultLameQuality      = 5
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30

	defaultVorbisGainBinary = "vorbisgain"
	defaultMetaflacBinary   = "metaflac"
	defaultAACGainBinary    = "aacgain"
	defaultLameBinary       = "lame"
	defaultOgg123Binary     = "ogg123"
	defaultFlacBinary       = "flac"
)

func defaultExcludedExtensions() []string {
	return []string{".log", ".pdf", ".txt", ".jpg", ".png"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			VorbisGain: defaultVorbisGainBinary,
			Metaflac:   defaultMetaflacBinary,
			AACGain:    defaultAACGainBinary,
			Lame:       defaultLameBinary,
			Ogg123:     defaultOgg123Binary,
			Flac:       defaultFlacBinary,
		},
		Encoding: Encoding{
			LameQuality: defaultLameQuality,
		},
		Input: Input{
			ExcludedExtensions: defaultExcludedExtensions(),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
