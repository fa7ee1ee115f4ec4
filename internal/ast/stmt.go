package ast

import "safethunk/internal/source"

// Stmt is implemented by statement nodes of synthesized bodies.
type Stmt interface {
	Node
	stmt()
}

type (
	// Let is `let Name = Value;`.
	Let struct {
		Name  string
		Value Expr
		Span  source.Span
	}

	// If is `if Cond { Then } [else { Else }]`.
	If struct {
		Cond Expr
		Then []Stmt
		Else []Stmt
		Span source.Span
	}

	Return struct {
		X    Expr
		Span source.Span
	}

	ExprStmt struct {
		X    Expr
		Span source.Span
	}
)

func (s *Let) Pos() source.Span      { return s.Span }
func (s *If) Pos() source.Span       { return s.Span }
func (s *Return) Pos() source.Span   { return s.Span }
func (s *ExprStmt) Pos() source.Span { return s.Span }

func (*Let) stmt()      {}
func (*If) stmt()       {}
func (*Return) stmt()   {}
func (*ExprStmt) stmt() {}
