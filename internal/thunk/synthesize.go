package thunk

import (
	"context"
	"errors"
	"strconv"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/source"
	"safethunk/internal/trace"
)

type Options struct {
	// Reporter receives the single diagnostic of a failed run.
	Reporter diag.Reporter
	// Files resolves annotation spans so count expressions can be parsed in
	// place. Optional; it is only read.
	Files *source.FileSet
}

// Result carries the wrapper together with what the run decided.
type Result struct {
	Decl   *ast.FnDecl
	Infos  []ParamInfo
	Elided bool
}

// Synthesize builds the wrapper of decl. On failure the problem has been
// reported to opts.Reporter and the result is nil.
func Synthesize(ctx context.Context, decl *ast.FnDecl, ann Annotations, opts Options) *ast.FnDecl {
	res, err := Run(ctx, decl, ann, opts.Files)
	if err != nil {
		Report(opts.Reporter, decl, err)
		return nil
	}
	return res.Decl
}

// Run is Synthesize without reporting.
func Run(ctx context.Context, decl *ast.FnDecl, ann Annotations, files *source.FileSet) (*Result, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	span := trace.Begin(tracer, trace.ScopeDecl, "decl:"+decl.QualifiedName(), parent)
	defer span.End("")
	stage := func(name string) *trace.Span {
		return trace.Begin(tracer, trace.ScopeStage, name, span.ID())
	}

	dc := NewDeclContext(decl)

	st := stage("parse")
	p, err := parseAnnotations(dc, ann, files)
	st.End("")
	if err != nil {
		return nil, err
	}

	st = stage("resolve")
	infos := resolve(p.infos, p.nonescaping, p.lifetimes)
	st.End("")

	st = stage("validate")
	err = validate(dc, infos, p.nonescaping, p.lifetimes)
	st.End("")
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNothingToGenerate
	}

	st = stage("build")
	infos = order(infos)
	skip := skipTrivialCount(infos)
	chain := newChain(dc, infos, skip)
	st.WithExtra("records", strconv.Itoa(len(infos)))
	st.End("")

	st = stage("emit")
	out, err := emit(dc, chain, p.lifetimes, skip)
	st.End("")
	if err != nil {
		return nil, err
	}
	return &Result{Decl: out, Infos: infos, Elided: skip}, nil
}

// Report turns a failed run into a diagnostic on r.
func Report(r diag.Reporter, decl *ast.FnDecl, err error) {
	if r == nil {
		return
	}
	if errors.Is(err, ErrNothingToGenerate) {
		diag.ReportWarning(r, diag.ThkNoAnnotations, decl.NameSpan,
			"no annotations to apply to "+decl.QualifiedName()).Emit()
		return
	}
	var te *Error
	if !errors.As(err, &te) {
		diag.ReportError(r, diag.UnknownCode, decl.NameSpan, err.Error()).Emit()
		return
	}
	b := diag.ReportError(r, te.Code, te.Span, te.Msg)
	for _, n := range te.Notes {
		b.WithNote(n.Span, n.Msg)
	}
	b.Emit()
}
