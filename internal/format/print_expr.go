package format

import (
	"safethunk/internal/ast"
	"safethunk/internal/parser"
)

// precPostfix binds tighter than any binary operator.
const (
	precUnary   = 7
	precPostfix = 8
)

func exprPrec(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.Binary:
		return e.Op.Prec()
	case *ast.Unary:
		return precUnary
	case *ast.IfExpr, *ast.Closure:
		return 0
	default:
		return precPostfix
	}
}

// printOperand prints e, wrapping it in parentheses when it binds looser than min.
func (p *printer) printOperand(e ast.Expr, minPrec int) {
	if exprPrec(e) < minPrec {
		_ = p.writer.WriteByte('(')
		p.printExpr(e)
		_ = p.writer.WriteByte(')')
		return
	}
	p.printExpr(e)
}

func (p *printer) printExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Ident:
		p.writer.WriteString(e.Name)
	case *ast.IntLit:
		p.writer.WriteString(e.Text)
	case *ast.StringLit:
		if e.Raw != "" {
			p.writer.WriteString(e.Raw)
		} else {
			p.writer.WriteString(parser.Quote(e.Value))
		}
	case *ast.BoolLit:
		if e.Value {
			p.writer.WriteString("true")
		} else {
			p.writer.WriteString("false")
		}
	case *ast.NilLit:
		p.writer.WriteString("nil")
	case *ast.ImplicitMember:
		_ = p.writer.WriteByte('.')
		p.writer.WriteString(e.Name)
	case *ast.Member:
		p.printOperand(e.X, precPostfix)
		if e.Optional {
			p.writer.WriteString("?.")
		} else {
			_ = p.writer.WriteByte('.')
		}
		p.writer.WriteString(e.Name)
	case *ast.ForceUnwrap:
		p.printOperand(e.X, precPostfix)
		_ = p.writer.WriteByte('!')
	case *ast.Call:
		p.printCall(e)
	case *ast.Binary:
		left, right := e.Op.Prec(), e.Op.Prec()+1
		if e.Op == ast.OpCoalesce {
			left, right = right, left
		}
		p.printOperand(e.X, left)
		p.writer.WriteString(" " + e.Op.String() + " ")
		p.printOperand(e.Y, right)
	case *ast.Unary:
		p.writer.WriteString(e.Op.String())
		p.printOperand(e.X, precUnary)
	case *ast.Paren:
		_ = p.writer.WriteByte('(')
		if e.X != nil {
			p.printExpr(e.X)
		}
		_ = p.writer.WriteByte(')')
	case *ast.Dict:
		p.printDict(e)
	case *ast.Closure:
		p.printClosure(e)
	case *ast.IfExpr:
		p.printIfExpr(e)
	case *ast.TypeExpr:
		p.printType(e.Type)
	case *ast.Lifetime:
		p.writer.WriteString(e.Kind + " " + e.Target)
	default:
		panic("format: unexpected expression type")
	}
}

func (p *printer) printCall(c *ast.Call) {
	if _, isClosure := c.Fun.(*ast.Closure); isClosure {
		// немедленно вызываемое замыкание: { ... }()
		p.printClosure(c.Fun.(*ast.Closure))
	} else {
		p.printOperand(c.Fun, precPostfix)
	}
	if len(c.Args) > 0 || c.Trailing == nil {
		_ = p.writer.WriteByte('(')
		p.printArgs(c.Args)
		_ = p.writer.WriteByte(')')
	}
	if c.Trailing != nil {
		p.writer.Space()
		p.printClosure(c.Trailing)
	}
}

func (p *printer) printDict(d *ast.Dict) {
	if len(d.Entries) == 0 {
		p.writer.WriteString("[:]")
		return
	}
	_ = p.writer.WriteByte('[')
	for i, en := range d.Entries {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printExpr(en.Key)
		p.writer.WriteString(": ")
		p.printExpr(en.Value)
	}
	_ = p.writer.WriteByte(']')
}

func (p *printer) printClosure(c *ast.Closure) {
	_ = p.writer.WriteByte('{')
	if len(c.Params) > 0 {
		p.writer.Space()
		for i, name := range c.Params {
			if i > 0 {
				p.writer.WriteString(", ")
			}
			p.writer.WriteString(name)
		}
		p.writer.WriteString(" in")
	}
	p.printBlockBody(c.Body)
	_ = p.writer.WriteByte('}')
}

func (p *printer) printIfExpr(e *ast.IfExpr) {
	p.writer.WriteString("if ")
	p.printExpr(e.Cond)
	p.writer.WriteString(" {")
	p.printExprBlock(e.Then)
	p.writer.WriteString("} else {")
	p.printExprBlock(e.Else)
	_ = p.writer.WriteByte('}')
}

func (p *printer) printExprBlock(e ast.Expr) {
	p.writer.Newline()
	p.writer.IndentPush()
	p.printExpr(e)
	p.writer.IndentPop()
	p.writer.Newline()
}
