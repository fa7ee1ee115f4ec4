package driver

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/project"
	"safethunk/internal/source"
	"safethunk/internal/thunk"
	"safethunk/internal/trace"
)

// declWork is one annotated declaration with everything its run needs.
type declWork struct {
	decl *ast.FnDecl
	ann  thunk.Annotations
	// texts are the annotation sources, part of the cache key.
	texts []string
}

type declOutcome struct {
	printed format.Printed
	bag     *diag.Bag
	ok      bool
	cached  bool
}

// collectWork pairs every declaration of file with its `@safethunk`
// attribute and sidecar entries. Declarations with neither are skipped.
// A malformed attribute is reported to bag and the declaration dropped.
func collectWork(fs *source.FileSet, file *ast.File, sidecars []*sidecar, bag *diag.Bag) []declWork {
	var work []declWork
	for _, d := range file.Decls() {
		attr := d.Attr("safethunk")
		extra := sidecarsFor(sidecars, d.QualifiedName())
		if attr == nil && len(extra) == 0 {
			continue
		}
		w := declWork{decl: d}
		if attr != nil {
			ann, err := thunk.FromAttr(attr)
			if err != nil {
				thunk.Report(diag.BagReporter{Bag: bag}, d, err)
				continue
			}
			w.ann = ann
			w.texts = append(w.texts, fs.Text(attr.Span))
		}
		for _, s := range extra {
			w.texts = append(w.texts, s.text)
		}
		w.ann = mergeAnnotations(w.ann, extra)
		work = append(work, w)
	}
	return work
}

// synthesizeAll runs every declaration of one file in parallel. Each run
// reports into its own bag; the outcomes keep declaration order. Once ctx
// is cancelled no further declaration starts and the error is returned.
func synthesizeAll(ctx context.Context, fs *source.FileSet, work []declWork, opts Options) ([]declOutcome, error) {
	outs := make([]declOutcome, len(work))
	if len(work) == 0 {
		return outs, ctx.Err()
	}
	maxDiag := opts.maxDiagnostics()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(work)))
	for i := range work {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			outs[i] = synthesizeOne(gctx, fs, &work[i], maxDiag, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

func synthesizeOne(ctx context.Context, fs *source.FileSet, w *declWork, maxDiag int, opts Options) declOutcome {
	out := declOutcome{bag: diag.NewBag(maxDiag)}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	var key project.Digest
	if opts.Cache != nil {
		key = CacheKey(layoutKey(opts.Format), w.decl.QualifiedName(), declSource(fs, w.decl), w.texts...)
		entry, ok, err := opts.Cache.Get(key)
		if err != nil {
			trace.Point(tracer, trace.ScopeDecl, "cache:error", err.Error(), parent)
		}
		if ok {
			trace.Point(tracer, trace.ScopeDecl, "cache:hit", w.decl.QualifiedName(), parent)
			out.printed, out.ok, out.cached = entry.Printed(), true, true
			return out
		}
	}

	decl := thunk.Synthesize(ctx, w.decl, w.ann, thunk.Options{
		Reporter: diag.BagReporter{Bag: out.bag},
		Files:    fs,
	})
	if decl == nil {
		return out
	}
	out.printed, out.ok = format.PrintedOf(decl, opts.Format), true

	if opts.Cache != nil {
		entry := &CacheEntry{Name: w.decl.QualifiedName(), Receiver: out.printed.Receiver, Text: out.printed.Text}
		if err := opts.Cache.Put(key, entry); err != nil {
			trace.Point(tracer, trace.ScopeDecl, "cache:error", err.Error(), parent)
		}
	}
	return out
}

// declSource is the cached part of decl's text: its doc lines, which the
// span does not cover, and the declaration itself.
func declSource(fs *source.FileSet, decl *ast.FnDecl) string {
	return strings.Join(decl.Doc, "\n") + "\x00" + fs.Text(decl.Span)
}
