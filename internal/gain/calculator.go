package gain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"albumconv/internal/audio"
	"albumconv/internal/config"
	"albumconv/internal/logging"
	"albumconv/internal/services"
)

const stageName = "gain"

// Tool is an external gain program and the flags that precede the file list.
type Tool struct {
	Binary string
	Args   []string
}

// Argv returns the full argument list for one invocation over paths.
func (t Tool) Argv(paths []string) []string {
	args := make([]string, 0, len(t.Args)+len(paths))
	args = append(args, t.Args...)
	return append(args, paths...)
}

// Tools builds the format to tool table from configured binary names.
func Tools(cfg *config.Config) map[audio.Format]Tool {
	tools := config.Default().Tools
	if cfg != nil {
		tools = cfg.Tools
	}
	return map[audio.Format]Tool{
		audio.OggVorbis: {Binary: tools.VorbisGain, Args: []string{"-a"}},
		audio.Flac:      {Binary: tools.Metaflac, Args: []string{"--add-replay-gain"}},
		audio.Mp3:       {Binary: tools.AACGain, Args: []string{"-r", "-a"}},
	}
}

// FailedError reports a gain invocation that could not run or exited non-zero.
type FailedError struct {
	Format audio.Format
	Tool   string
	Err    error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("gain calculation failed for %s files (%s): %v", e.Format, e.Tool, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// Calculator runs the album gain tool for a homogeneous batch.
type Calculator struct {
	tools  map[audio.Format]Tool
	run    services.CommandRunner
	logger *slog.Logger
}

// NewCalculator constructs a Calculator. A nil runner executes real processes.
func NewCalculator(cfg *config.Config, logger *slog.Logger, runner services.CommandRunner) *Calculator {
	return &Calculator{
		tools:  Tools(cfg),
		run:    services.RunnerOrDefault(runner),
		logger: logging.NewComponentLogger(logger, "gain"),
	}
}

// Apply runs the gain tool for format once over every path. The call blocks
// until the tool exits.
func (c *Calculator) Apply(ctx context.Context, format audio.Format, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	tool, ok := c.tools[format]
	if !ok {
		return &FailedError{
			Format: format,
			Err:    services.Wrap(services.ErrValidation, stageName, "select tool", "no gain tool for format", errors.New(format.String())),
		}
	}

	logger := logging.WithContext(services.WithStage(ctx, stageName), c.logger)
	logger.Info("gain calculation started",
		logging.Event("gain_started"),
		logging.String(logging.FieldFormat, format.String()),
		logging.String("tool", tool.Binary),
		logging.Int("files", len(paths)),
	)

	start := time.Now()
	if err := c.run(ctx, tool.Binary, tool.Argv(paths)...); err != nil {
		return &FailedError{
			Format: format,
			Tool:   tool.Binary,
			Err:    services.Wrap(services.ErrExternalTool, stageName, tool.Binary, "album gain", err),
		}
	}

	logger.Info("gain calculation completed",
		logging.Event("gain_completed"),
		logging.String(logging.FieldFormat, format.String()),
		logging.Int("files", len(paths)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}
