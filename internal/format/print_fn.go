package format

import "safethunk/internal/ast"

func (p *printer) printFnDecl(d *ast.FnDecl) {
	for _, line := range d.Doc {
		if line == "" {
			p.writer.WriteString("///")
		} else {
			p.writer.WriteString("/// " + line)
		}
		p.writer.Newline()
	}
	for _, a := range d.Attrs {
		p.printAttr(a)
		p.writer.Newline()
	}
	if d.Pub {
		p.writer.WriteString("pub ")
	}
	p.writer.WriteString("fn ")
	p.writer.WriteString(d.Name)
	_ = p.writer.WriteByte('(')
	for i, param := range d.Params {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		p.printParam(param)
	}
	_ = p.writer.WriteByte(')')
	if d.Result != nil {
		p.writer.WriteString(" -> ")
		p.printType(d.Result)
	}
	if !d.HasBody {
		_ = p.writer.WriteByte(';')
		return
	}
	p.writer.WriteString(" {")
	p.writer.Newline()
	p.writer.IndentPush()
	p.printStmts(d.Body)
	p.writer.IndentPop()
	p.writer.Newline()
	_ = p.writer.WriteByte('}')
}

func (p *printer) printParam(param *ast.Param) {
	p.writer.WriteString(param.FirstName)
	if param.SecondName != "" {
		p.writer.Space()
		p.writer.WriteString(param.SecondName)
	}
	p.writer.WriteString(": ")
	p.printType(param.Type)
}

func (p *printer) printAttr(a *ast.Attr) {
	_ = p.writer.WriteByte('@')
	p.writer.WriteString(a.Name)
	if !a.HasParens && len(a.Args) == 0 {
		return
	}
	_ = p.writer.WriteByte('(')
	p.printArgs(a.Args)
	_ = p.writer.WriteByte(')')
}

func (p *printer) printArgs(args []*ast.Arg) {
	for i, a := range args {
		if i > 0 {
			p.writer.WriteString(", ")
		}
		if a.Label != "" {
			p.writer.WriteString(a.Label)
			p.writer.WriteString(": ")
		}
		p.printExpr(a.Value)
	}
}

func (p *printer) printType(t *ast.Type) {
	p.writer.WriteString(t.String())
}
