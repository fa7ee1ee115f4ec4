package driver

import (
	"errors"
	"sync/atomic"

	"fortio.org/safecast"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/parser"
	"safethunk/internal/project"
	"safethunk/internal/source"
	"safethunk/internal/thunk"
)

// sidecar is a parsed [[annotations]] entry of safethunk.toml.
type sidecar struct {
	decl string
	text string
	span source.Span
	ann  thunk.Annotations
	used atomic.Bool
}

// loadSidecars adds every entry as a virtual file and parses it. Broken
// entries are reported and skipped. Runs before any file is processed:
// the file set must not grow afterwards.
func loadSidecars(fs *source.FileSet, cfg *project.Config, r diag.Reporter) []*sidecar {
	var out []*sidecar
	for i, entry := range cfg.Annotations {
		text := entry.Text()
		id := fs.AddVirtual(project.VirtualName(cfg.Path, i), []byte(text))
		file := fs.Get(id)
		end, err := safecast.Conv[uint32](len(file.Content))
		if err != nil {
			panic(err)
		}
		whole := source.Span{File: id, Start: 0, End: end}

		e, ok := parser.ParseExprInRange(file, whole, parser.Options{Reporter: r, MaxErrors: 1})
		if !ok {
			diag.ReportError(r, diag.ProjSidecarInvalid, whole,
				"cannot parse annotations of '"+entry.Decl+"'").Emit()
			continue
		}
		call, ok := e.(*ast.Call)
		if !ok {
			diag.ReportError(r, diag.ProjSidecarInvalid, whole,
				"annotations of '"+entry.Decl+"' are not a call").Emit()
			continue
		}
		ann, err := thunk.FromAttr(&ast.Attr{Name: "safethunk", Args: call.Args, HasParens: true, Span: call.Span})
		if err != nil {
			reportAt(r, whole, err)
			continue
		}
		out = append(out, &sidecar{decl: entry.Decl, text: text, span: whole, ann: ann})
	}
	return out
}

// sidecarsFor returns the entries naming decl, in config order, and marks
// them used.
func sidecarsFor(all []*sidecar, decl string) []*sidecar {
	var out []*sidecar
	for _, s := range all {
		if s.decl == decl {
			s.used.Store(true)
			out = append(out, s)
		}
	}
	return out
}

// reportUnused warns about entries that matched no declaration of the run.
func reportUnused(all []*sidecar, r diag.Reporter) {
	for _, s := range all {
		if !s.used.Load() {
			diag.ReportWarning(r, diag.ThkUnknownDeclaration, s.span,
				"no declaration named '"+s.decl+"' in the processed files").Emit()
		}
	}
}

// mergeAnnotations appends sidecar annotations to the attribute's. Mapping
// tables are concatenated, so a later key overrides an earlier one.
func mergeAnnotations(base thunk.Annotations, extra []*sidecar) thunk.Annotations {
	out := thunk.Annotations{Exprs: append([]ast.Expr(nil), base.Exprs...), Mappings: base.Mappings}
	for _, s := range extra {
		out.Exprs = append(out.Exprs, s.ann.Exprs...)
		if s.ann.Mappings == nil {
			continue
		}
		if out.Mappings == nil {
			out.Mappings = s.ann.Mappings
			continue
		}
		merged := &ast.Dict{Span: out.Mappings.Span}
		merged.Entries = append(append(merged.Entries, out.Mappings.Entries...), s.ann.Mappings.Entries...)
		out.Mappings = merged
	}
	return out
}

// reportAt reports an error of the core that has no declaration to anchor
// on, falling back to span.
func reportAt(r diag.Reporter, span source.Span, err error) {
	var te *thunk.Error
	if !errors.As(err, &te) {
		diag.ReportError(r, diag.ProjSidecarInvalid, span, err.Error()).Emit()
		return
	}
	at := te.Span
	if at == (source.Span{}) {
		at = span
	}
	b := diag.ReportError(r, te.Code, at, te.Msg)
	for _, n := range te.Notes {
		b.WithNote(n.Span, n.Msg)
	}
	b.Emit()
}
