package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTools()
	if err := c.normalizeEncoding(); err != nil {
		return err
	}
	c.normalizeInput()
	return c.normalizeLogging()
}

func (c *Config) normalizeTools() {
	fallback := func(value, def string) string {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
		return def
	}
	c.Tools.VorbisGain = fallback(c.Tools.VorbisGain, defaultVorbisGainBinary)
	c.Tools.Metaflac = fallback(c.Tools.Metaflac, defaultMetaflacBinary)
	c.Tools.AACGain = fallback(c.Tools.AACGain, defaultAACGainBinary)
	c.Tools.Lame = fallback(c.Tools.Lame, defaultLameBinary)
	c.Tools.Ogg123 = fallback(c.Tools.Ogg123, defaultOgg123Binary)
	c.Tools.Flac = fallback(c.Tools.Flac, defaultFlacBinary)
}

func (c *Config) normalizeEncoding() error {
	var err error
	c.Encoding.TempDir = strings.TrimSpace(c.Encoding.TempDir)
	if c.Encoding.TempDir, err = expandPath(c.Encoding.TempDir); err != nil {
		return fmt.Errorf("encoding.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeInput() {
	if c.Input.ExcludedExtensions == nil {
		c.Input.ExcludedExtensions = defaultExcludedExtensions()
		return
	}
	exts := make([]string, 0, len(c.Input.ExcludedExtensions))
	seen := make(map[string]struct{}, len(c.Input.ExcludedExtensions))
	for _, ext := range c.Input.ExcludedExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Input.ExcludedExtensions = exts
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
