package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"safethunk/internal/diag"
	"safethunk/internal/driver"
	"safethunk/internal/observ"
	"safethunk/internal/pipeline"
	"safethunk/internal/project"
	"safethunk/internal/ui"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <file.sfi|directory>",
	Short: "Generate safe wrappers for annotated declarations",
	Long: `Generate safe wrappers for every annotated declaration of an interface file,
or of all *.sfi files within a directory. Output goes next to each input as
<name>.safe.sfi unless --out or generate.out_dir says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.sfi|directory>",
	Short: "Check annotations without writing wrappers",
	Long:  `Run the whole pipeline on an interface file or directory and print diagnostics only`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiag,
}

func init() {
	for _, cmd := range []*cobra.Command{genCmd, diagCmd} {
		cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
		cmd.Flags().Int("jobs", 0, "max parallel workers (0 = generate.jobs, then GOMAXPROCS)")
		cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
		cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	}
	genCmd.Flags().StringP("out", "o", "", "output file, directory, or - for stdout")
	genCmd.Flags().Bool("cache", false, "reuse wrappers from the result cache (default: generate.cache)")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")

	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

// runSetup is what gen and diag share: inputs, config and driver options.
type runSetup struct {
	inputs []string
	cfg    project.Config
	print  printOptions
	opts   driver.Options
	timer  *observ.Timer
	quiet  bool
}

func prepare(cmd *cobra.Command, target string) (*runSetup, error) {
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return nil, err
	}
	printOpts, err := readPrintOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	inputs, err := driver.ListInputs(target, cfg.Generate.Suffix)
	if err != nil {
		return nil, err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	s := &runSetup{inputs: inputs, cfg: cfg, print: printOpts, quiet: quiet}
	if showTimings {
		s.timer = observ.NewTimer()
	}
	s.opts = driver.Options{
		Config:         cfg,
		Jobs:           jobs,
		MaxDiagnostics: printOpts.max,
		Timer:          s.timer,
		BaseDir:        baseDir(cfg),
	}
	return s, nil
}

func runGen(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	s.opts.Output, err = resolveOutput(out, args[0], len(s.inputs))
	if err != nil {
		return err
	}
	s.opts.Output.Stdout = cmd.OutOrStdout()

	useCache := s.cfg.Generate.Cache
	if cmd.Flags().Changed("cache") {
		if useCache, err = cmd.Flags().GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if useCache {
		cache, err := driver.OpenDiskCache("safethunk")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		s.opts.Cache = cache
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	withUI := ui.Enabled(mode, len(s.inputs)) && s.opts.Output.Mode != driver.OutputStdout && !s.quiet

	var rec pipeline.Recorder
	s.opts.Progress = &rec
	var res *driver.Result
	if withUI {
		res, err = runWithUI(cmd.Context(), "safethunk gen", s.inputs, s.opts)
	} else {
		res, err = driver.Run(cmd.Context(), s.inputs, s.opts)
	}
	if err != nil {
		return err
	}
	return finish(cmd, s, res, &rec)
}

func runDiag(cmd *cobra.Command, args []string) error {
	s, err := prepare(cmd, args[0])
	if err != nil {
		return err
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	var rec pipeline.Recorder
	s.opts.Progress = &rec
	res, err := driver.Run(cmd.Context(), s.inputs, s.opts)
	if err != nil {
		return err
	}

	bag := res.Diagnostics()
	if noWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}
	if warningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
	return report(cmd, s, res, bag, &rec)
}

// finish prints diagnostics and the summary line of gen.
func finish(cmd *cobra.Command, s *runSetup, res *driver.Result, rec *pipeline.Recorder) error {
	err := report(cmd, s, res, res.Diagnostics(), rec)
	if s.quiet || s.opts.Output.Mode == driver.OutputStdout {
		return err
	}
	written := 0
	for i := range res.Files {
		if res.Files[i].Written != "" {
			written++
		}
	}
	_, generated, cached := res.Counts()
	fmt.Fprintf(cmd.ErrOrStderr(), "generated %d wrapper(s) in %d file(s)", generated, written)
	if cached > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), ", %d from cache", cached)
	}
	fmt.Fprintln(cmd.ErrOrStderr())
	return err
}

// report prints bag and timings; it returns errFailed when bag has errors.
func report(cmd *cobra.Command, s *runSetup, res *driver.Result, bag *diag.Bag, rec *pipeline.Recorder) error {
	if s.timer != nil && s.print.format == "json" {
		bag = driver.AppendTimings(bag, res, s.timer)
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), bag, res.FileSet, s.print); err != nil {
		return err
	}
	if s.timer != nil && s.print.format != "json" {
		printStageTimings(cmd.ErrOrStderr(), rec.Timings())
		fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	}
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}

// resolveOutput maps --out onto the driver: "" writes next to each input
// (or into generate.out_dir), "-" prints, an existing directory or a path
// ending in a separator collects outputs, anything else names the single
// output file.
func resolveOutput(out, target string, inputs int) (driver.Output, error) {
	switch {
	case out == "":
		return driver.Output{Mode: driver.OutputFiles}, nil
	case out == "-":
		return driver.Output{Mode: driver.OutputStdout}, nil
	}
	if strings.HasSuffix(out, string(filepath.Separator)) || strings.HasSuffix(out, "/") {
		return driver.Output{Mode: driver.OutputFiles, Dir: out}, nil
	}
	st, err := os.Stat(out)
	switch {
	case err == nil && st.IsDir():
		return driver.Output{Mode: driver.OutputFiles, Dir: out}, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return driver.Output{}, err
	}
	if tst, err := os.Stat(target); err == nil && tst.IsDir() {
		// каталог на входе: --out всегда каталог
		return driver.Output{Mode: driver.OutputFiles, Dir: out}, nil
	}
	if inputs > 1 {
		return driver.Output{}, fmt.Errorf("--out %s names a file but there are %d inputs", out, inputs)
	}
	return driver.Output{Mode: driver.OutputFiles, File: out}, nil
}
