package driver

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/observ"
	"safethunk/internal/parser"
	"safethunk/internal/pipeline"
	"safethunk/internal/project"
	"safethunk/internal/source"
	"safethunk/internal/trace"
)

// OutputMode says where generated files go.
type OutputMode uint8

const (
	// OutputNone runs the pipeline for diagnostics only.
	OutputNone OutputMode = iota
	// OutputFiles writes one file per input.
	OutputFiles
	// OutputStdout concatenates every output on Stdout, in input order.
	OutputStdout
)

// Output configures the write stage.
type Output struct {
	Mode OutputMode
	// File is the exact output path; only valid with a single input.
	File string
	// Dir overrides generate.out_dir.
	Dir    string
	Stdout io.Writer
}

// Options configures one run.
type Options struct {
	Config         project.Config
	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache
	Output         Output
	Format         format.Options
	Progress       pipeline.ProgressSink
	Timer          *observ.Timer
	BaseDir        string
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = o.Config.Generate.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return o.Config.Diagnostics.Max
}

// FileResult is the outcome of one interface file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Loaded bool
	Parsed bool
	Bag    *diag.Bag
	// Decls holds the printed wrappers in declaration order.
	Decls     []format.Printed
	Annotated int
	Cached    int
	// Written is the output path, "" when nothing was written.
	Written string
	Elapsed time.Duration
}

// Output lays out the wrappers of the file.
func (r *FileResult) Output(opt format.Options) []byte {
	return format.FormatPrinted(r.Decls, opt)
}

// Result is the outcome of a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	// Bag holds diagnostics that belong to no input: sidecar entries of the
	// config.
	Bag *diag.Bag

	maxDiag int
}

// Diagnostics merges the run bag and every file bag in input order, under
// the same limit as each of them.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(r.maxDiag)
	out.Merge(r.Bag)
	for i := range r.Files {
		out.Merge(r.Files[i].Bag)
	}
	return out
}

func (r *Result) HasErrors() bool {
	if r.Bag.HasErrors() {
		return true
	}
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// allParsed reports whether every declaration of the run was seen, so an
// unmatched sidecar entry really names nothing.
func (r *Result) allParsed() bool {
	for i := range r.Files {
		if !r.Files[i].Parsed {
			return false
		}
	}
	return true
}

// Counts returns the number of annotated, generated and cached declarations.
func (r *Result) Counts() (annotated, generated, cached int) {
	for i := range r.Files {
		annotated += r.Files[i].Annotated
		generated += len(r.Files[i].Decls)
		cached += r.Files[i].Cached
	}
	return annotated, generated, cached
}

// Run loads paths, applies the sidecar annotations of opts.Config and
// synthesizes every annotated declaration. Files are processed in parallel;
// results and diagnostics keep input order.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeRun, "run")
	defer span.End("")
	span.WithExtra("files", strconv.Itoa(len(paths)))

	maxDiag := opts.maxDiagnostics()
	res := &Result{
		FileSet: source.NewFileSetWithBase(opts.BaseDir),
		Files:   make([]FileResult, len(paths)),
		Bag:     diag.NewBag(maxDiag),
		maxDiag: maxDiag,
	}
	if opts.Output.File != "" && len(paths) > 1 {
		return nil, fmt.Errorf("output file %s given for %d inputs", opts.Output.File, len(paths))
	}
	pipeline.EmitQueued(opts.Progress, paths)

	// Загружаем всё заранее: дальше FileSet только читается.
	loadIdx := opts.Timer.Begin("load")
	for i, path := range paths {
		fr := &res.Files[i]
		fr.Path = path
		fr.Bag = diag.NewBag(maxDiag)
		start := time.Now()
		id, err := res.FileSet.Load(path)
		if err != nil {
			fr.Bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load "+path+": "+err.Error()))
			pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			continue
		}
		fr.FileID, fr.Loaded = id, true
		pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	}
	sidecars := loadSidecars(res.FileSet, &opts.Config, diag.BagReporter{Bag: res.Bag})
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files, %d sidecar entries", len(paths), len(sidecars)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(paths)))
	for i := range res.Files {
		fr := &res.Files[i]
		if !fr.Loaded {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			idx := opts.Timer.Begin("file " + pipeline.DisplayPath(fr.Path, opts.BaseDir))
			if err := processFile(gctx, res.FileSet, fr, sidecars, opts); err != nil {
				return err
			}
			if opts.Output.Mode == OutputFiles {
				writeFile(fr, opts)
			} else {
				pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: doneOrError(fr)})
			}
			fr.Elapsed = time.Since(start)
			opts.Timer.End(idx, fmt.Sprintf("%d/%d decls, %d cached", len(fr.Decls), fr.Annotated, fr.Cached))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if res.allParsed() {
		reportUnused(sidecars, diag.BagReporter{Bag: res.Bag})
	}

	if opts.Output.Mode == OutputStdout {
		if err := writeStdout(res, opts); err != nil {
			return res, err
		}
	}
	return res, nil
}

// processFile parses one file and synthesizes its annotated declarations.
// It fails only when ctx is cancelled.
func processFile(ctx context.Context, fs *source.FileSet, fr *FileResult, sidecars []*sidecar, opts Options) error {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+fr.Path)
	defer span.End("")

	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	start := time.Now()
	maxErrors, err := safecast.Conv[uint](opts.maxDiagnostics())
	if err != nil {
		maxErrors = 0
	}
	parsed := parser.ParseFile(fs.Get(fr.FileID), parser.Options{
		Reporter:  diag.BagReporter{Bag: fr.Bag},
		MaxErrors: maxErrors,
	})
	if parsed.Errors > 0 {
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageParse, Status: pipeline.StatusError, Elapsed: time.Since(start)})
		return nil
	}
	fr.Parsed = true
	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageParse, Status: pipeline.StatusDone, Elapsed: time.Since(start)})

	work := collectWork(fs, parsed.File, sidecars, fr.Bag)
	fr.Annotated = len(work)
	span.WithExtra("decls", strconv.Itoa(len(work)))

	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageSynthesize, Status: pipeline.StatusWorking})
	start = time.Now()
	outs, err := synthesizeAll(ctx, fs, work, opts)
	if err != nil {
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageSynthesize, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start)})
		return err
	}
	for _, out := range outs {
		fr.Bag.Merge(out.bag)
		if !out.ok {
			continue
		}
		fr.Decls = append(fr.Decls, out.printed)
		if out.cached {
			fr.Cached++
		}
	}
	status := pipeline.StatusDone
	if fr.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(opts.Progress, pipeline.Event{
		File:    fr.Path,
		Stage:   pipeline.StageSynthesize,
		Status:  status,
		Elapsed: time.Since(start),
		Decls:   len(fr.Decls),
		Cached:  fr.Cached,
	})
	return nil
}

func doneOrError(fr *FileResult) pipeline.Status {
	if fr.Bag.HasErrors() {
		return pipeline.StatusError
	}
	return pipeline.StatusDone
}
