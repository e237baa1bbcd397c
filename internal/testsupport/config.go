package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albumconv/internal/config"
)

// ConfigOption adjusts a test config. base is the per-test root directory.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns defaults rooted in a fresh temp directory:
//
//	<base>/tmp   decode scratch space (created)
//	<base>/logs  run logs
//	<base>/bin   stub tools, when WithStubbedBinaries is used
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Encoding.Workers = 2
	cfg.Encoding.TempDir = filepath.Join(base, "tmp")
	cfg.Logging.Dir = filepath.Join(base, "logs")
	if err := os.Mkdir(cfg.Encoding.TempDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", cfg.Encoding.TempDir, err)
	}
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

func WithWorkers(n int) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) { cfg.Encoding.Workers = n }
}

func WithLameQuality(q int) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) { cfg.Encoding.LameQuality = q }
}

// WithStubbedBinaries installs no-op executables under <base>/bin and puts
// that directory first on PATH for the rest of the test. With no names every
// configured tool is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, base string, cfg *config.Config) {
		t.Helper()
		if len(names) == 0 {
			tl := cfg.Tools
			names = []string{tl.VorbisGain, tl.Metaflac, tl.AACGain, tl.Lame, tl.Ogg123, tl.Flac}
		}
		bin := filepath.Join(base, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", bin, err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", strings.Join([]string{bin, os.Getenv("PATH")}, string(os.PathListSeparator)))
	}
}

// BaseDir recovers the root directory NewConfig created for cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Encoding.TempDir)
}
