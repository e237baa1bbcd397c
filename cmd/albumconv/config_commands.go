package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"albumconv/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the albumconv configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigShowCommand(ctx))
	return cmd
}

type configInitOptions struct {
	path      string
	overwrite bool
}

// target resolves --path, falling back to the per-user config location.
func (o configInitOptions) target() (string, error) {
	if p := strings.TrimSpace(o.path); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	p, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return p, nil
}

func (o configInitOptions) run(cmd *cobra.Command) error {
	target, err := o.target()
	if err != nil {
		return err
	}
	if !o.overwrite {
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil:
			return fmt.Errorf("%s already exists (use --overwrite to replace it)", target)
		case !errors.Is(statErr, fs.ErrNotExist):
			return fmt.Errorf("check config path: %w", statErr)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
	return nil
}

func newConfigInitCommand() *cobra.Command {
	var opts configInitOptions
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Where to write the file (default: ~/.config/albumconv/config.toml)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			source := "built-in defaults"
			if !defaults {
				loaded, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg = *loaded
				source = ctx.configPath
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if source != "" {
				fmt.Fprintf(out, "# %s\n", source)
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Ignore the config file and flags and print the built-in defaults")
	return cmd
}
