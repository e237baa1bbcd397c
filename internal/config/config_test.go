package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"albumconv/internal/config"
)

func TestLoadDefaultConfigWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "albumconv", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Tools.Lame != "lame" || cfg.Tools.Flac != "flac" || cfg.Tools.AACGain != "aacgain" {
		t.Fatalf("unexpected default tools: %+v", cfg.Tools)
	}
	if cfg.Encoding.LameQuality != 5 {
		t.Fatalf("expected default quality 5, got %d", cfg.Encoding.LameQuality)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	got := strings.Join(cfg.Input.ExcludedExtensions, ",")
	if got != ".log,.pdf,.txt,.jpg,.png" {
		t.Fatalf("unexpected excluded extensions: %s", got)
	}
}

func TestLoadProjectConfigFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	projectDir := t.TempDir()
	t.Chdir(projectDir)

	if err := os.WriteFile(filepath.Join(projectDir, "albumconv.toml"), []byte("[encoding]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project config to be found")
	}
	if filepath.Base(resolved) != "albumconv.toml" {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.WorkerCount() != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.WorkerCount())
	}
}

func TestLoadCustomPathNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[tools]
lame = "  /opt/lame/bin/lame  "
flac = ""

[encoding]
lame_quality = 2
temp_dir = "~/scratch"

[input]
excluded_extensions = ["LOG", ".Cue", ".log", "  "]

[logging]
format = "JSON"
level = "DEBUG"
dir = "~/logs"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Tools.Lame != "/opt/lame/bin/lame" {
		t.Fatalf("expected trimmed lame path, got %q", cfg.Tools.Lame)
	}
	if cfg.Tools.Flac != "flac" {
		t.Fatalf("expected empty flac to fall back to default, got %q", cfg.Tools.Flac)
	}
	if cfg.Encoding.LameQuality != 2 {
		t.Fatalf("unexpected quality %d", cfg.Encoding.LameQuality)
	}
	if cfg.Encoding.TempDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("unexpected temp dir %q", cfg.Encoding.TempDir)
	}
	if got := strings.Join(cfg.Input.ExcludedExtensions, ","); got != ".log,.cue" {
		t.Fatalf("unexpected excluded extensions %q", got)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Logging.Dir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir %q", cfg.Logging.Dir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "quality", content: "[encoding]\nlame_quality = 12\n", want: "lame_quality"},
		{name: "workers", content: "[encoding]\nworkers = -1\n", want: "workers"},
		{name: "level", content: "[logging]\nlevel = \"verbose\"\n", want: "logging.level"},
		{name: "unknown", content: "[tools]\nffmpeg = \"ffmpeg\"\n", want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestWorkerCountDefaultsToCPUs(t *testing.T) {
	cfg := config.Default()
	if got := cfg.WorkerCount(); got != runtime.NumCPU() {
		t.Fatalf("WorkerCount() = %d, want %d", got, runtime.NumCPU())
	}
	cfg.Encoding.Workers = 2
	if got := cfg.WorkerCount(); got != 2 {
		t.Fatalf("WorkerCount() = %d, want 2", got)
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		path string
		want bool
	}{
		{path: "/music/rip.LOG", want: true},
		{path: "/music/cover.jpg", want: true},
		{path: "/music/notes.Txt", want: true},
		{path: "/music/01.flac", want: false},
		{path: "/music/README", want: false},
	}
	for _, tt := range tests {
		if got := cfg.IsExcluded(tt.path); got != tt.want {
			t.Fatalf("IsExcluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	var raw map[string]any
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	for _, section := range []string{"tools", "encoding", "input", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("expected section %q in sample config", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.Tools != def.Tools {
		t.Fatalf("sample tools differ from defaults: %+v", cfg.Tools)
	}
	if cfg.Encoding.LameQuality != def.Encoding.LameQuality {
		t.Fatalf("sample quality differs from default: %d", cfg.Encoding.LameQuality)
	}
}

func TestEncodeProducesTOML(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(data), "lame_quality = 5") {
		t.Fatalf("expected lame_quality in output, got:\n%s", data)
	}
}
