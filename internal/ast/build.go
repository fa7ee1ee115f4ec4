package ast

// Shorthand constructors for synthesized code. Spans stay zero.

func Id(name string) *Ident { return &Ident{Name: name} }

func Int(text string) *IntLit { return &IntLit{Text: text} }

func Dot(x Expr, name string) *Member { return &Member{X: x, Name: name} }

func OptDot(x Expr, name string) *Member { return &Member{X: x, Name: name, Optional: true} }

func Bang(x Expr) *ForceUnwrap { return &ForceUnwrap{X: x} }

func Bin(op BinaryOp, x, y Expr) *Binary { return &Binary{Op: op, X: x, Y: y} }

// CallOf builds `fun(args)`.
func CallOf(fun Expr, args ...*Arg) *Call { return &Call{Fun: fun, Args: args} }

// A builds an argument; an empty label means positional.
func A(label string, v Expr) *Arg { return &Arg{Label: label, Value: v} }

// Walk calls fn for every expression reachable from e, parents first.
// Returning false skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e := e.(type) {
	case *Member:
		Walk(e.X, fn)
	case *ForceUnwrap:
		Walk(e.X, fn)
	case *Call:
		Walk(e.Fun, fn)
		for _, a := range e.Args {
			Walk(a.Value, fn)
		}
		if e.Trailing != nil {
			Walk(e.Trailing, fn)
		}
	case *Binary:
		Walk(e.X, fn)
		Walk(e.Y, fn)
	case *Unary:
		Walk(e.X, fn)
	case *Paren:
		Walk(e.X, fn)
	case *Dict:
		for _, en := range e.Entries {
			Walk(en.Key, fn)
			Walk(en.Value, fn)
		}
	case *Closure:
		for _, s := range e.Body {
			walkStmt(s, fn)
		}
	case *IfExpr:
		Walk(e.Cond, fn)
		Walk(e.Then, fn)
		Walk(e.Else, fn)
	}
}

func walkStmt(s Stmt, fn func(Expr) bool) {
	switch s := s.(type) {
	case *Let:
		Walk(s.Value, fn)
	case *If:
		Walk(s.Cond, fn)
		for _, t := range s.Then {
			walkStmt(t, fn)
		}
		for _, t := range s.Else {
			walkStmt(t, fn)
		}
	case *Return:
		Walk(s.X, fn)
	case *ExprStmt:
		Walk(s.X, fn)
	}
}
