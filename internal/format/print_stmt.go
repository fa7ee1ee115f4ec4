package format

import "safethunk/internal/ast"

func (p *printer) printStmts(stmts []ast.Stmt) {
	for i, s := range stmts {
		if i > 0 {
			p.writer.Newline()
		}
		p.printStmt(s)
	}
}

func (p *printer) printStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		p.writer.WriteString("let " + s.Name + " = ")
		p.printExpr(s.Value)
		_ = p.writer.WriteByte(';')
	case *ast.If:
		p.writer.WriteString("if ")
		p.printExpr(s.Cond)
		p.writer.WriteString(" {")
		p.printBlockBody(s.Then)
		_ = p.writer.WriteByte('}')
		if len(s.Else) > 0 {
			p.writer.WriteString(" else {")
			p.printBlockBody(s.Else)
			_ = p.writer.WriteByte('}')
		}
	case *ast.Return:
		if s.X == nil {
			p.writer.WriteString("return;")
			return
		}
		p.writer.WriteString("return ")
		p.printExpr(s.X)
		_ = p.writer.WriteByte(';')
	case *ast.ExprStmt:
		p.printExpr(s.X)
		_ = p.writer.WriteByte(';')
	default:
		panic("format: unexpected statement type")
	}
}

// printBlockBody prints stmts on their own indented lines and leaves the
// writer at the start of the closing line.
func (p *printer) printBlockBody(stmts []ast.Stmt) {
	p.writer.Newline()
	p.writer.IndentPush()
	p.printStmts(stmts)
	p.writer.IndentPop()
	p.writer.Newline()
}
