package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"albumconv/internal/audio"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var expect string
	cmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Identify audio formats from file content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := audio.Unknown
			if expect != "" {
				parsed, ok := audio.ParseFormat(expect)
				if !ok {
					return fmt.Errorf("unknown format %q (want one of %s)", expect, formatNames())
				}
				want = parsed
			}

			rows := make([][]string, 0, len(args))
			failed, mismatched := 0, 0
			for _, path := range args {
				info, err := audio.Probe(path)
				if err != nil {
					failed++
					var unsupported *audio.UnsupportedFormatError
					detail := err.Error()
					if errors.As(err, &unsupported) {
						detail = "unsupported"
						if unsupported.Detected != "" {
							detail += " (" + unsupported.Detected + ")"
						}
					}
					rows = append(rows, []string{filepath.Base(path), detail, "", "", ""})
					continue
				}
				name := info.Format.String()
				if want != audio.Unknown && info.Format != want {
					mismatched++
					name += " (expected " + want.String() + ")"
				}
				rows = append(rows, []string{
					filepath.Base(path),
					name,
					formatHz(info.SampleRate),
					formatCount(info.Channels),
					info.MIME,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Format", "Sample rate", "Channels", "MIME"},
				rows, 2, 3,
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d files are not supported sources", failed, len(args))
			}
			if mismatched > 0 {
				return fmt.Errorf("%d of %d files are not %s", mismatched, len(args), want)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expect, "expect", "", "Fail unless every file is this format ("+formatNames()+")")
	return cmd
}

func formatNames() string {
	formats := audio.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func formatHz(rate int) string {
	if rate <= 0 {
		return "-"
	}
	return strconv.Itoa(rate) + " Hz"
}

func formatCount(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
