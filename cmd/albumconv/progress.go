package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"albumconv/internal/convert"
	"albumconv/internal/logging"
)

// progressReporter shows a bar on terminals and sampled log lines elsewhere.
// The orchestrator calls observe from a single goroutine.
type progressReporter struct {
	bar     *progressbar.ProgressBar
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func newProgressReporter(w io.Writer, logger *slog.Logger, total int, showBar bool) *progressReporter {
	p := &progressReporter{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(25),
	}
	if showBar && total > 0 {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *progressReporter) observe(outcome convert.Outcome, done, total int) {
	if p.bar != nil {
		p.bar.Describe(filepath.Base(outcome.Job.Source))
		_ = p.bar.Add(1)
		return
	}
	if p.sampler.ShouldLog(done, total) {
		p.logger.Info("conversion progress",
			logging.Event("batch_progress"),
			logging.Int("done", done),
			logging.Int("total", total),
		)
	}
}

func (p *progressReporter) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
