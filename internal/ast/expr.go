package ast

import (
	"safethunk/internal/source"
)

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

type (
	Ident struct {
		Name string
		Span source.Span
	}

	IntLit struct {
		Text string
		Span source.Span
	}

	// StringLit keeps the quoted source text in Raw and the unescaped value in Value.
	StringLit struct {
		Raw   string
		Value string
		Span  source.Span
	}

	BoolLit struct {
		Value bool
		Span  source.Span
	}

	NilLit struct {
		Span source.Span
	}

	// ImplicitMember is `.name`, the enum-case shorthand.
	ImplicitMember struct {
		Name string
		Span source.Span
	}

	// Member is `X.Name` or, with Optional, `X?.Name`.
	Member struct {
		X        Expr
		Name     string
		Optional bool
		Span     source.Span
	}

	// ForceUnwrap is `X!`.
	ForceUnwrap struct {
		X    Expr
		Span source.Span
	}

	// Call is `Fun(args)` optionally followed by a trailing closure.
	Call struct {
		Fun      Expr
		Args     []*Arg
		Trailing *Closure
		Span     source.Span
	}

	Binary struct {
		Op   BinaryOp
		X, Y Expr
		Span source.Span
	}

	Unary struct {
		Op   UnaryOp
		X    Expr
		Span source.Span
	}

	// Paren is `(X)`; X == nil is the empty tuple `()`.
	Paren struct {
		X    Expr
		Span source.Span
	}

	// Dict is `[k: v, ...]`; `[:]` is an empty dictionary.
	Dict struct {
		Entries []DictEntry
		Span    source.Span
	}

	// Closure is `{ params in body }`.
	Closure struct {
		Params []string
		Body   []Stmt
		Span   source.Span
	}

	// IfExpr is `if Cond { Then } else { Else }` in expression position.
	IfExpr struct {
		Cond Expr
		Then Expr
		Else Expr
		Span source.Span
	}

	// TypeExpr names a type in expression position, e.g. `Span<CInt>(...)`.
	TypeExpr struct {
		Type *Type
		Span source.Span
	}

	// Lifetime is `borrow x` / `copy x` inside @lifetime.
	Lifetime struct {
		Kind   string
		Target string
		Span   source.Span
	}
)

type DictEntry struct {
	Key, Value Expr
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpCoalesce
)

var binaryOpText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpRem: "%",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||", OpCoalesce: "??",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

// Prec is the binding power used by the parser and by the printer to decide
// on parentheses. Higher binds tighter.
func (op BinaryOp) Prec() int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return 3
	case OpCoalesce:
		return 4
	case OpAdd, OpSub:
		return 5
	default:
		return 6
	}
}

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

func (e *Ident) Pos() source.Span          { return e.Span }
func (e *IntLit) Pos() source.Span         { return e.Span }
func (e *StringLit) Pos() source.Span      { return e.Span }
func (e *BoolLit) Pos() source.Span        { return e.Span }
func (e *NilLit) Pos() source.Span         { return e.Span }
func (e *ImplicitMember) Pos() source.Span { return e.Span }
func (e *Member) Pos() source.Span         { return e.Span }
func (e *ForceUnwrap) Pos() source.Span    { return e.Span }
func (e *Call) Pos() source.Span           { return e.Span }
func (e *Binary) Pos() source.Span         { return e.Span }
func (e *Unary) Pos() source.Span          { return e.Span }
func (e *Paren) Pos() source.Span          { return e.Span }
func (e *Dict) Pos() source.Span           { return e.Span }
func (e *Closure) Pos() source.Span        { return e.Span }
func (e *IfExpr) Pos() source.Span         { return e.Span }
func (e *TypeExpr) Pos() source.Span       { return e.Span }
func (e *Lifetime) Pos() source.Span       { return e.Span }

func (*Ident) expr()          {}
func (*IntLit) expr()         {}
func (*StringLit) expr()      {}
func (*BoolLit) expr()        {}
func (*NilLit) expr()         {}
func (*ImplicitMember) expr() {}
func (*Member) expr()         {}
func (*ForceUnwrap) expr()    {}
func (*Call) expr()           {}
func (*Binary) expr()         {}
func (*Unary) expr()          {}
func (*Paren) expr()          {}
func (*Dict) expr()           {}
func (*Closure) expr()        {}
func (*IfExpr) expr()         {}
func (*TypeExpr) expr()       {}
func (*Lifetime) expr()       {}
