package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"albumconv/internal/audio"
	"albumconv/internal/config"
	"albumconv/internal/fileutil"
	"albumconv/internal/gain"
	"albumconv/internal/logging"
	"albumconv/internal/services"
	"albumconv/internal/tags"
	"albumconv/internal/transcode"
)

const (
	gainStage      = "gain"
	transcodeStage = "transcode"
)

// ProgressFunc observes each finished job. It is called from the collecting
// goroutine only, in completion order.
type ProgressFunc func(outcome Outcome, done, total int)

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the external process runner for every phase.
func WithRunner(runner services.CommandRunner) Option {
	return func(o *Orchestrator) {
		o.runner = runner
	}
}

// WithProgress registers a callback invoked after each job finishes.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// WithBatchID fixes the batch identifier instead of generating one.
func WithBatchID(id string) Option {
	return func(o *Orchestrator) {
		o.batchID = id
	}
}

// Orchestrator runs album conversions.
type Orchestrator struct {
	cfg        *config.Config
	logger     *slog.Logger
	runner     services.CommandRunner
	progress   ProgressFunc
	batchID    string
	gain       *gain.Calculator
	transcoder *transcode.Transcoder
}

// New constructs an Orchestrator. A nil cfg uses defaults.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Orchestrator {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	o := &Orchestrator{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "convert"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.gain = gain.NewCalculator(cfg, logger, o.runner)
	o.transcoder = transcode.New(cfg, logger, o.runner)
	return o
}

// Run converts sources into outputDir. The returned error is non-nil only
// when the batch aborted; per-file failures are reported in the Report.
func (o *Orchestrator) Run(ctx context.Context, sources []string, outputDir string) (*Report, error) {
	report := &Report{
		BatchID:   o.batchID,
		State:     StateValidating,
		StartedAt: time.Now(),
	}
	if report.BatchID == "" {
		report.BatchID = uuid.NewString()
	}
	ctx = services.WithBatchID(ctx, report.BatchID)
	defer func() {
		report.Elapsed = time.Since(report.StartedAt)
	}()

	logger := logging.WithContext(ctx, o.logger)
	logger.Info("conversion started",
		logging.Event("batch_started"),
		logging.Int("sources", len(sources)),
		logging.String("output_dir", outputDir),
	)

	batch, err := o.validate(sources, outputDir)
	report.Batch = batch
	for _, skipped := range batch.Skipped {
		logger.Info("skipping non-audio file",
			logging.Event("source_skipped"),
			logging.Source(skipped),
		)
	}
	if err != nil {
		return o.abort(ctx, report, validateStage, err)
	}
	lock, err := acquireLock(batch.OutputDir)
	if err != nil {
		return o.abort(ctx, report, validateStage, err)
	}
	defer o.releaseLock(ctx, lock)

	report.State = StateGain
	format, err := audio.BatchFormat(batch.Sources)
	if err != nil {
		return o.abort(ctx, report, gainStage, err)
	}
	batch.Format = format
	report.Batch = batch
	if err := o.gain.Apply(ctx, format, batch.Sources); err != nil {
		return o.abort(ctx, report, gainStage, err)
	}

	report.State = StateTranscode
	if err := os.MkdirAll(batch.OutputDir, 0o755); err != nil {
		return o.abort(ctx, report, transcodeStage,
			services.Wrap(services.ErrConfiguration, transcodeStage, "create output directory", batch.OutputDir, err))
	}
	report.Outcomes = o.runJobs(ctx, batch)
	report.State = StateDone

	logger.Info("conversion completed",
		logging.Event("batch_completed"),
		logging.String(logging.FieldFormat, format.String()),
		logging.Int("succeeded", report.Succeeded()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", time.Since(report.StartedAt)),
	)
	return report, nil
}

func (o *Orchestrator) abort(ctx context.Context, report *Report, stage string, err error) (*Report, error) {
	report.State = StateAborted
	report.Err = err
	logger := logging.WithContext(services.WithStage(ctx, stage), o.logger)
	logging.ErrorWithContext(logger, "conversion aborted", "batch_aborted",
		logging.String("failure_kind", services.FailureKind(err)),
		logging.Error(err),
	)
	return report, err
}

func (o *Orchestrator) releaseLock(ctx context.Context, lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "failed to release output lock", "lock_release_failed",
			logging.String("lock", lock.Path()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a stale lock file may remain in the temp directory"),
		)
	}
}

// runJobs fans jobs out to the worker pool and collects outcomes in
// completion order.
func (o *Orchestrator) runJobs(ctx context.Context, batch Batch) []Outcome {
	jobs := batch.Jobs()
	workers := min(o.cfg.WorkerCount(), len(jobs))

	logger := logging.WithContext(services.WithStage(ctx, transcodeStage), o.logger)
	logger.Info("transcoding started",
		logging.Event("transcode_started"),
		logging.Int("jobs", len(jobs)),
		logging.Int("workers", workers),
	)

	queue := make(chan Job)
	results := make(chan Outcome)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				results <- o.convert(ctx, batch.Format, job)
			}
		}()
	}
	go func() {
		for _, job := range jobs {
			queue <- job
		}
		close(queue)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(jobs))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
		o.logOutcome(ctx, outcome)
		if o.progress != nil {
			o.progress(outcome, len(outcomes), len(jobs))
		}
	}
	return outcomes
}

// convert runs one job and returns its only Outcome.
func (o *Orchestrator) convert(ctx context.Context, batchFormat audio.Format, job Job) (outcome Outcome) {
	start := time.Now()
	outcome = Outcome{Job: job, Destination: job.Destination}
	defer func() {
		outcome.Elapsed = time.Since(start)
	}()
	ctx = services.WithSource(services.WithStage(ctx, transcodeStage), job.Source)

	fail := func(phase string, err error) Outcome {
		outcome.Phase = phase
		outcome.Err = err
		return outcome
	}

	format, err := audio.Detect(job.Source)
	if err != nil {
		return fail(PhaseDetect, err)
	}
	outcome.Format = format
	if format != batchFormat {
		return fail(PhaseDetect, &audio.MixedFormatError{Path: job.Source, Want: batchFormat, Got: format})
	}

	strategy, err := o.transcoder.For(format)
	if err != nil {
		return fail(PhaseTranscode, err)
	}
	if err := strategy.Transcode(ctx, job.Source, job.Destination); err != nil {
		return fail(PhaseTranscode, err)
	}

	if err := writeTags(job, format); err != nil {
		if rmErr := fileutil.RemoveIfExists(job.Destination); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return fail(PhaseTags, err)
	}
	return outcome
}

func writeTags(job Job, format audio.Format) error {
	meta, err := tags.ReadFormat(job.Source, format)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}
	if err := tags.Write(job.Destination, tags.Translate(meta)); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

func (o *Orchestrator) logOutcome(ctx context.Context, outcome Outcome) {
	logger := logging.WithContext(services.WithSource(services.WithStage(ctx, transcodeStage), outcome.Job.Source), o.logger)
	if outcome.Succeeded() {
		logger.Info("file converted",
			logging.Event("job_completed"),
			logging.Destination(outcome.Destination),
			logging.Duration("elapsed", outcome.Elapsed),
		)
		return
	}
	logging.WarnWithContext(logger, "file conversion failed", "job_failed",
		logging.String("phase", outcome.Phase),
		logging.String("failure_kind", services.FailureKind(outcome.Err)),
		logging.Error(outcome.Err),
		logging.String(logging.FieldErrorHint, "inspect the source file and rerun with --log-level debug"),
		logging.String(logging.FieldImpact, "file skipped; remaining files continue"),
	)
}
