package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"albumconv/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	// FilePath, when set, receives every record at debug level as JSON in
	// addition to OutputPaths.
	FilePath    string
	Development bool
	// Stdout and Stderr replace the process streams for the "stdout" and
	// "stderr" output names.
	Stdout io.Writer
	Stderr io.Writer
}

// New constructs a slog logger using the provided options. The returned
// closer syncs and closes every log file the logger opened; it must be
// called once logging is finished.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	var files logFiles
	outputWriter, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}), opts.Stdout, opts.Stderr, &files)
	if err != nil {
		_ = files.Close()
		return nil, nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(outputWriter, levelVar, addSource)
	case "console":
		handler = newConsoleHandler(outputWriter, levelVar, addSource)
	default:
		_ = files.Close()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			_ = files.Close()
			return nil, nil, err
		}
		files = append(files, file)
		fileLevel := new(slog.LevelVar)
		fileLevel.Set(slog.LevelDebug)
		handler = newTeeHandler(handler, newJSONHandler(file, fileLevel, true))
	}

	return slog.New(handler), files, nil
}

// logFiles are the files opened for one logger.
type logFiles []*os.File

func (fs logFiles) Close() error {
	var errs []error
	for _, f := range fs {
		errs = append(errs, f.Sync(), f.Close())
	}
	return errors.Join(errs...)
}

// NewFromConfig creates a logger using application config defaults. When the
// config names a log directory, the run is also recorded in
// albumconv-<runID>.log there and logPath names that file. Close the returned
// closer when the run ends.
func NewFromConfig(cfg *config.Config, runID string, stderr io.Writer) (logger *slog.Logger, logPath string, closer io.Closer, err error) {
	if cfg == nil {
		logger, closer, err = New(Options{Level: "info", Format: "console", Stderr: stderr})
		return logger, "", closer, err
	}

	if dir := strings.TrimSpace(cfg.Logging.Dir); dir != "" {
		name := "albumconv.log"
		if runID != "" {
			name = fmt.Sprintf("albumconv-%s.log", runID)
		}
		logPath = filepath.Join(dir, name)
	}

	logger, closer, err = New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
		FilePath:    logPath,
		Stderr:      stderr,
	})
	if err != nil {
		return nil, "", nil, err
	}
	return logger, logPath, closer, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		cp := make([]string, len(fallback))
		copy(cp, fallback)
		return cp
	}
	cp := make([]string, len(value))
	copy(cp, value)
	return cp
}

func openWriters(paths []string, stdout, stderr io.Writer, files *logFiles) (io.Writer, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	seen := map[string]struct{}{}
	var writers []io.Writer
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, stdout)
		case "stderr":
			writers = append(writers, stderr)
		default:
			file, err := openLogFile(trimmed)
			if err != nil {
				return nil, err
			}
			*files = append(*files, file)
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
