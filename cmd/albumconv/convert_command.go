package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"albumconv/internal/convert"
	"albumconv/internal/logging"
	"albumconv/internal/services"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var quality int
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "convert [flags] SOURCE... DIR",
		Short: "Normalize album gain and convert every source file to MP3 in DIR",
		Long: "Convert applies album gain to the sources in place, then transcodes each\n" +
			"file to <DIR>/<name>.mp3 and copies its tags. Sources must all be Ogg\n" +
			"Vorbis, all FLAC or all MP3; non-audio files such as logs and cover art\n" +
			"are skipped.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Encoding.Workers = workers
			}
			if cmd.Flags().Changed("quality") {
				cfg.Encoding.LameQuality = quality
			}
			if err := cfg.Validate(); err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "flags", "", err)
			}

			sources := args[:len(args)-1]
			outputDir := args[len(args)-1]

			runID := time.Now().UTC().Format("20060102T150405.000Z")
			stderr := cmd.ErrOrStderr()
			logger, logPath, logCloser, err := logging.NewFromConfig(cfg, runID, stderr)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				if err := logCloser.Close(); err != nil {
					fmt.Fprintf(stderr, "close run log: %v\n", err)
				}
			}()
			if logPath != "" {
				logging.CleanupOldLogs(logger, cfg.Logging.Dir, "albumconv-*.log", cfg.Logging.RetentionDays, logPath)
			}

			progress := newProgressReporter(stderr, logger, len(sources), !noProgress && isTerminal(stderr))
			orch := convert.New(cfg, logger, convert.WithProgress(progress.observe))
			report, runErr := orch.Run(cmd.Context(), sources, outputDir)
			progress.finish()

			printReport(cmd.OutOrStdout(), report)
			if runErr != nil {
				return fmt.Errorf("conversion aborted: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent transcode jobs (0 uses the number of CPUs)")
	cmd.Flags().IntVarP(&quality, "quality", "q", 5, "LAME VBR quality, 0 (best) to 9 (smallest)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

// printReport renders the per-file outcomes and a one-line summary.
func printReport(out io.Writer, report *convert.Report) {
	if report == nil {
		return
	}
	if len(report.Outcomes) > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, outcome := range report.Outcomes {
			status := "ok"
			detail := filepath.Base(outcome.Destination)
			if !outcome.Succeeded() {
				status = "failed (" + outcome.Phase + ")"
				detail = outcome.Err.Error()
			}
			rows = append(rows, []string{
				filepath.Base(outcome.Job.Source),
				status,
				detail,
				outcome.Elapsed.Round(time.Millisecond).String(),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Status", "Output", "Elapsed"}, rows, 3))
	}

	summary := [][2]string{
		{"Batch", report.BatchID},
		{"State", string(report.State)},
		{"Format", report.Batch.Format.String()},
		{"Output", report.Batch.OutputDir},
		{"Converted", strconv.Itoa(report.Succeeded())},
		{"Failed", strconv.Itoa(report.Failed())},
		{"Skipped", strconv.Itoa(len(report.Batch.Skipped))},
		{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderKeyValue(summary))
}
