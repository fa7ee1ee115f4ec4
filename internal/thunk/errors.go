package thunk

import (
	"errors"
	"fmt"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/source"
)

// Phase indicates which stage produced the error.
type Phase string

const (
	PhaseParse    Phase = "parse"
	PhaseResolve  Phase = "resolve"
	PhaseValidate Phase = "validate"
	PhaseBuild    Phase = "build"
	PhaseEmit     Phase = "emit"
)

// Kind categorizes the error
type Kind string

const (
	KindStructural    Kind = "structural"
	KindUnimplemented Kind = "unimplemented"
)

// Error is the single error type that leaves a synthesis run. It is
// reported once, at Span, with Notes attached.
type Error struct {
	Phase Phase
	Kind  Kind
	Code  diag.Code
	Msg   string
	Node  ast.Node
	Span  source.Span
	Notes []diag.Note
}

func (e *Error) Error() string {
	return "[" + string(e.Phase) + "] " + e.Msg
}

// Is matches on Kind, and on Phase when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Phase == "" || t.Phase == e.Phase)
}

func (e *Error) withNote(sp source.Span, msg string) *Error {
	e.Notes = append(e.Notes, diag.Note{Span: sp, Msg: msg})
	return e
}

// ErrNotImplemented matches every error about a recognized but unsupported
// annotation shape.
var ErrNotImplemented = &Error{Kind: KindUnimplemented, Msg: "not yet implemented"}

// ErrNothingToGenerate is returned when the annotations describe no
// transformation at all.
var ErrNothingToGenerate = errors.New("no annotations to apply")

func structural(phase Phase, code diag.Code, node ast.Node, format string, args ...any) *Error {
	e := &Error{
		Phase: phase,
		Kind:  KindStructural,
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		Node:  node,
	}
	if node != nil {
		e.Span = node.Pos()
	}
	return e
}

func unimplemented(node ast.Node, format string, args ...any) *Error {
	e := structural(PhaseParse, diag.FutEndedByNotSupported, node, format, args...)
	e.Kind = KindUnimplemented
	return e
}

// invariant panics on a condition validation should have ruled out.
func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic("internal error: " + fmt.Sprintf(format, args...))
	}
}
