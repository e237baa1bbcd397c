package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-audio/wav"

	"albumconv/internal/audio"
	"albumconv/internal/config"
	"albumconv/internal/fileutil"
	"albumconv/internal/logging"
	"albumconv/internal/services"
)

const stageName = "transcode"

// Strategy converts one source file into an MP3 at destination.
type Strategy interface {
	Transcode(ctx context.Context, source, destination string) error
}

// Transcoder selects the Strategy for a source format.
type Transcoder struct {
	strategies map[audio.Format]Strategy
}

// New builds the strategy table from cfg. A nil runner executes real processes.
func New(cfg *config.Config, logger *slog.Logger, runner services.CommandRunner) *Transcoder {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	run := services.RunnerOrDefault(runner)
	logger = logging.NewComponentLogger(logger, "transcode")

	enc := encoder{
		binary:  cfg.Tools.Lame,
		quality: cfg.Encoding.LameQuality,
		run:     run,
		logger:  logger,
	}
	tools := cfg.Tools
	return &Transcoder{
		strategies: map[audio.Format]Strategy{
			audio.Mp3: mp3Strategy{encoder: enc},
			audio.OggVorbis: decodeStrategy{
				decoder: tools.Ogg123,
				argv: func(source, wavPath string) []string {
					return []string{"-q", "-d", "wav", "-f", wavPath, source}
				},
				tempDir: cfg.Encoding.TempDir,
				encoder: enc,
			},
			audio.Flac: decodeStrategy{
				decoder: tools.Flac,
				argv: func(source, wavPath string) []string {
					return []string{"-s", "-d", "--apply-replaygain-which-is-not-lossless", "-o", wavPath, source}
				},
				tempDir: cfg.Encoding.TempDir,
				encoder: enc,
			},
		},
	}
}

// For returns the Strategy registered for format.
func (t *Transcoder) For(format audio.Format) (Strategy, error) {
	strategy, ok := t.strategies[format]
	if !ok {
		return nil, services.Wrap(services.ErrValidation, stageName, "select strategy", "no strategy for "+format.String(), nil)
	}
	return strategy, nil
}

// encoder runs lame. A failed encode never leaves a destination behind.
type encoder struct {
	binary  string
	quality int
	run     services.CommandRunner
	logger  *slog.Logger
}

func (e encoder) encode(ctx context.Context, source, input, destination string) error {
	args := []string{"-V" + strconv.Itoa(e.quality), "--silent", input, destination}
	logging.WithContext(ctx, e.logger).Debug("encoding mp3",
		logging.Destination(destination),
		logging.String("tool", e.binary),
	)
	if err := e.run(ctx, e.binary, args...); err != nil {
		if rmErr := fileutil.RemoveIfExists(destination); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return &FailedError{
			Source: source,
			Step:   StepEncode,
			Err:    services.Wrap(services.ErrExternalTool, stageName, e.binary, "encode mp3", err),
		}
	}
	return nil
}

type mp3Strategy struct {
	encoder encoder
}

func (s mp3Strategy) Transcode(ctx context.Context, source, destination string) error {
	return s.encoder.encode(ctx, source, source, destination)
}

// decodeStrategy decodes through an intermediate WAV file before encoding.
type decodeStrategy struct {
	decoder string
	argv    func(source, wavPath string) []string
	tempDir string
	encoder encoder
}

func (s decodeStrategy) Transcode(ctx context.Context, source, destination string) (err error) {
	tmp, err := NewTempWAV(s.tempDir)
	if err != nil {
		return &FailedError{
			Source: source,
			Step:   StepPrepare,
			Err:    services.Wrap(services.ErrTransient, stageName, "temp wav", "", err),
		}
	}
	defer func() {
		if relErr := tmp.Release(); relErr != nil && err == nil {
			logging.WithContext(ctx, s.encoder.logger).Warn("temp wav cleanup failed",
				logging.String("path", tmp.Path()),
				logging.Error(relErr),
			)
		}
	}()

	logging.WithContext(ctx, s.encoder.logger).Debug("decoding to wav",
		logging.String("tool", s.decoder),
		logging.String("wav", tmp.Path()),
	)
	if err := s.encoder.run(ctx, s.decoder, s.argv(source, tmp.Path())...); err != nil {
		return &FailedError{
			Source: source,
			Step:   StepDecode,
			Err:    services.Wrap(services.ErrExternalTool, stageName, s.decoder, "decode to wav", err),
		}
	}
	if err := validateWAV(tmp.Path()); err != nil {
		return &FailedError{
			Source: source,
			Step:   StepValidate,
			Err:    services.Wrap(services.ErrExternalTool, stageName, s.decoder, "decoded output", err),
		}
	}
	return s.encoder.encode(ctx, source, tmp.Path(), destination)
}

func validateWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open decoded wav: %w", err)
	}
	defer f.Close()

	if !wav.NewDecoder(f).IsValidFile() {
		return fmt.Errorf("%s is not a valid RIFF/WAVE file", path)
	}
	return nil
}
