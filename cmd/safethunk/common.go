package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"safethunk/internal/diag"
	"safethunk/internal/diagfmt"
	"safethunk/internal/project"
	"safethunk/internal/source"
)

// setupColor applies --color to fatih/color, which every colored writer
// of the tool goes through.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// loadConfig reads --config, or the safethunk.toml nearest to target.
func loadConfig(cmd *cobra.Command, target string) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.Load(path)
	}
	return project.Discover(target)
}

// baseDir is the directory diagnostics paths are shown relative to: the
// project root when there is one, the working directory otherwise.
func baseDir(cfg project.Config) string {
	if cfg.Path != "" {
		return filepath.Dir(cfg.Path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

type printOptions struct {
	format    string
	withNotes bool
	fullPath  bool
	max       int
}

func (o printOptions) pathMode() diagfmt.PathMode {
	if o.fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}

// printDiagnostics writes bag to w in the selected format.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts printOptions) error {
	switch opts.format {
	case "pretty", "":
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   1,
			PathMode:  opts.pathMode(),
			ShowNotes: opts.withNotes,
			ShowFixes: opts.withNotes,
		})
		return nil
	case "short":
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(bag.Items(), fs, opts.withNotes))
		return err
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode(),
			Max:              opts.max,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.withNotes,
		})
	default:
		return fmt.Errorf("unknown format: %s (expected pretty|short|json)", opts.format)
	}
}

// readPrintOptions resolves --format, --with-notes and --fullpath; an
// unset --format falls back to diagnostics.format.
func readPrintOptions(cmd *cobra.Command, cfg project.Config) (printOptions, error) {
	var opts printOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") {
		opts.format = cfg.Diagnostics.Format
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if opts.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.max <= 0 {
		opts.max = cfg.Diagnostics.Max
	}
	switch opts.format {
	case "pretty", "short", "json":
		return opts, nil
	default:
		return opts, fmt.Errorf("unknown format: %s (expected pretty|short|json)", opts.format)
	}
}
