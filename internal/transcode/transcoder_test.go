package transcode_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"albumconv/internal/audio"
	"albumconv/internal/config"
	"albumconv/internal/services"
	"albumconv/internal/testsupport"
	"albumconv/internal/transcode"
)

type fakeTools struct {
	t          *testing.T
	mu         sync.Mutex
	calls      [][]string
	wavPaths   []string
	failTool   string
	invalidWAV bool
}

func (f *fakeTools) run(_ context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == "ogg123" || name == "flac" {
		f.wavPaths = append(f.wavPaths, args[len(args)-2])
	}
	f.mu.Unlock()

	if name == f.failTool {
		if name == "lame" {
			// lame leaves a truncated file behind when it dies mid-encode.
			_ = os.WriteFile(args[len(args)-1], []byte{0xFF, 0xFB}, 0o644)
		}
		return errors.New("exit status 1")
	}
	switch name {
	case "ogg123", "flac":
		wavPath := args[len(args)-2]
		if f.invalidWAV {
			return os.WriteFile(wavPath, []byte("garbage"), 0o644)
		}
		testsupport.WAVFile(f.t, wavPath)
	case "lame":
		return os.WriteFile(args[len(args)-1], testsupport.MPEGFrames(2), 0o644)
	}
	return nil
}

func newTranscoder(t *testing.T, tools *fakeTools) (*transcode.Transcoder, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return transcode.New(cfg, nil, tools.run), cfg
}

func TestMp3StrategyEncodesDirectly(t *testing.T) {
	tools := &fakeTools{t: t}
	tc, _ := newTranscoder(t, tools)
	dir := t.TempDir()
	dest := filepath.Join(dir, "out", "01.mp3")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}

	strategy, err := tc.For(audio.Mp3)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if err := strategy.Transcode(context.Background(), "/src/01.mp3", dest); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	want := [][]string{{"lame", "-V5", "--silent", "/src/01.mp3", dest}}
	if !reflect.DeepEqual(tools.calls, want) {
		t.Fatalf("calls = %v, want %v", tools.calls, want)
	}
}

func TestDecodeStrategiesUseTempWAV(t *testing.T) {
	tests := []struct {
		format audio.Format
		source string
		decode func(wavPath, source string) []string
	}{
		{
			format: audio.OggVorbis,
			source: "/src/01.ogg",
			decode: func(wavPath, source string) []string {
				return []string{"ogg123", "-q", "-d", "wav", "-f", wavPath, source}
			},
		},
		{
			format: audio.Flac,
			source: "/src/01.flac",
			decode: func(wavPath, source string) []string {
				return []string{"flac", "-s", "-d", "--apply-replaygain-which-is-not-lossless", "-o", wavPath, source}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			tools := &fakeTools{t: t}
			transcoder, cfg := newTranscoder(t, tools)
			dest := filepath.Join(t.TempDir(), "01.mp3")

			strategy, err := transcoder.For(tc.format)
			if err != nil {
				t.Fatalf("For: %v", err)
			}
			if err := strategy.Transcode(context.Background(), tc.source, dest); err != nil {
				t.Fatalf("Transcode: %v", err)
			}
			if len(tools.calls) != 2 || len(tools.wavPaths) != 1 {
				t.Fatalf("unexpected calls: %v", tools.calls)
			}
			wavPath := tools.wavPaths[0]
			if !reflect.DeepEqual(tools.calls[0], tc.decode(wavPath, tc.source)) {
				t.Fatalf("decode call = %v", tools.calls[0])
			}
			wantEncode := []string{"lame", "-V5", "--silent", wavPath, dest}
			if !reflect.DeepEqual(tools.calls[1], wantEncode) {
				t.Fatalf("encode call = %v, want %v", tools.calls[1], wantEncode)
			}
			if !strings.HasPrefix(wavPath, cfg.Encoding.TempDir+string(filepath.Separator)) {
				t.Fatalf("temp wav %s not under configured temp dir %s", wavPath, cfg.Encoding.TempDir)
			}
			if _, err := os.Stat(filepath.Dir(wavPath)); !os.IsNotExist(err) {
				t.Fatalf("expected temp wav dir to be released, stat err=%v", err)
			}
		})
	}
}

func TestDecodeFailureReleasesTempWAV(t *testing.T) {
	tools := &fakeTools{t: t, failTool: "flac"}
	transcoder, _ := newTranscoder(t, tools)
	dest := filepath.Join(t.TempDir(), "01.mp3")

	strategy, _ := transcoder.For(audio.Flac)
	err := strategy.Transcode(context.Background(), "/src/01.flac", dest)
	var failed *transcode.FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *transcode.FailedError, got %v", err)
	}
	if failed.Step != transcode.StepDecode || failed.Source != "/src/01.flac" {
		t.Fatalf("unexpected failure: %+v", failed)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if len(tools.calls) != 1 {
		t.Fatalf("encoder must not run after a decode failure: %v", tools.calls)
	}
	if _, statErr := os.Stat(filepath.Dir(tools.wavPaths[0])); !os.IsNotExist(statErr) {
		t.Fatalf("temp wav dir survived a failed decode")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination created on decode failure")
	}
}

func TestInvalidDecodedWAVFailsValidation(t *testing.T) {
	tools := &fakeTools{t: t, invalidWAV: true}
	transcoder, _ := newTranscoder(t, tools)
	dest := filepath.Join(t.TempDir(), "01.mp3")

	strategy, _ := transcoder.For(audio.OggVorbis)
	err := strategy.Transcode(context.Background(), "/src/01.ogg", dest)
	var failed *transcode.FailedError
	if !errors.As(err, &failed) || failed.Step != transcode.StepValidate {
		t.Fatalf("expected validate failure, got %v", err)
	}
	if len(tools.calls) != 1 {
		t.Fatalf("encoder must not run on an invalid wav: %v", tools.calls)
	}
}

func TestEncodeFailureRemovesPartialDestination(t *testing.T) {
	tools := &fakeTools{t: t, failTool: "lame"}
	transcoder, _ := newTranscoder(t, tools)
	dest := filepath.Join(t.TempDir(), "01.mp3")

	strategy, _ := transcoder.For(audio.OggVorbis)
	err := strategy.Transcode(context.Background(), "/src/01.ogg", dest)
	var failed *transcode.FailedError
	if !errors.As(err, &failed) || failed.Step != transcode.StepEncode {
		t.Fatalf("expected encode failure, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("partial destination left behind")
	}
	if _, statErr := os.Stat(filepath.Dir(tools.wavPaths[0])); !os.IsNotExist(statErr) {
		t.Fatalf("temp wav dir survived a failed encode")
	}
}

func TestQualityFromConfig(t *testing.T) {
	tools := &fakeTools{t: t}
	cfg := testsupport.NewConfig(t, testsupport.WithLameQuality(2))
	transcoder := transcode.New(cfg, nil, tools.run)
	dest := filepath.Join(t.TempDir(), "01.mp3")

	strategy, _ := transcoder.For(audio.Mp3)
	if err := strategy.Transcode(context.Background(), "/src/01.mp3", dest); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if tools.calls[0][1] != "-V2" {
		t.Fatalf("quality flag = %q, want -V2", tools.calls[0][1])
	}
}

func TestForUnknownFormat(t *testing.T) {
	transcoder := transcode.New(nil, nil, (&fakeTools{t: t}).run)
	if _, err := transcoder.For(audio.Unknown); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTempWAVRelease(t *testing.T) {
	parent := t.TempDir()
	tmp, err := transcode.NewTempWAV(parent)
	if err != nil {
		t.Fatalf("NewTempWAV: %v", err)
	}
	if filepath.Dir(filepath.Dir(tmp.Path())) != parent {
		t.Fatalf("temp wav %s not under %s", tmp.Path(), parent)
	}
	if _, err := os.Stat(tmp.Path()); !os.IsNotExist(err) {
		t.Fatalf("wav file should not exist before decode")
	}
	testsupport.WAVFile(t, tmp.Path())
	if err := tmp.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := tmp.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(tmp.Path())); !os.IsNotExist(err) {
		t.Fatalf("temp dir survived release")
	}
}
