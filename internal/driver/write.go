package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"safethunk/internal/diag"
	"safethunk/internal/pipeline"
	"safethunk/internal/source"
)

// target is where the output of fr goes.
func target(fr *FileResult, opts Options) string {
	if opts.Output.File != "" {
		return opts.Output.File
	}
	dir := opts.Output.Dir
	if dir == "" {
		dir = opts.Config.Generate.OutDir
	}
	return OutputPath(fr.Path, dir, opts.Config.Generate.Suffix)
}

// writeFile writes the wrappers of one file. Files with errors are not
// written, so a stale output never looks complete; files without wrappers
// are left alone.
func writeFile(fr *FileResult, opts Options) {
	if fr.Bag.HasErrors() {
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusError})
		return
	}
	if len(fr.Decls) == 0 {
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusDone})
		return
	}
	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
	start := time.Now()
	path := target(fr, opts)
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err == nil {
		// #nosec G306 -- generated interface files are meant to be shared
		err = os.WriteFile(path, fr.Output(opts.Format), 0o644)
	}
	if err != nil {
		fr.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: fr.FileID}, "failed to write "+path+": "+err.Error()))
		pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusError, Err: err})
		return
	}
	fr.Written = path
	pipeline.Emit(opts.Progress, pipeline.Event{File: fr.Path, Stage: pipeline.StageWrite, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
}

// writeStdout prints every output in input order. With several inputs each
// output is headed by a comment naming its source.
func writeStdout(res *Result, opts Options) error {
	w := opts.Output.Stdout
	if w == nil {
		w = os.Stdout
	}
	many := 0
	for i := range res.Files {
		if len(res.Files[i].Decls) > 0 && !res.Files[i].Bag.HasErrors() {
			many++
		}
	}
	first := true
	for i := range res.Files {
		fr := &res.Files[i]
		if len(fr.Decls) == 0 || fr.Bag.HasErrors() {
			continue
		}
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		if many > 1 {
			if _, err := fmt.Fprintf(w, "// %s\n", pipeline.DisplayPath(fr.Path, opts.BaseDir)); err != nil {
				return err
			}
		}
		if _, err := w.Write(fr.Output(opts.Format)); err != nil {
			return err
		}
		fr.Written = "-"
	}
	return nil
}
