package format

import (
	"errors"
	"strings"

	"safethunk/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	writer *Writer
	opt    Options
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{writer: NewWriter(opt), opt: opt}
}

// FormatFile prints every item of file, separated by blank lines.
func FormatFile(file *ast.File, opt Options) ([]byte, error) {
	if file == nil {
		return nil, errors.New("format: nil file")
	}
	p := newPrinter(opt)
	for i, item := range file.Items {
		if i > 0 {
			p.writer.BlankLine()
		}
		p.printItem(item)
	}
	p.writer.Newline()
	return p.writer.Bytes(), nil
}

// FormatDecls prints decls, grouping methods into `extern<T>` blocks by
// receiver in order of first appearance.
func FormatDecls(decls []*ast.FnDecl, opt Options) []byte {
	file := &ast.File{Items: GroupByReceiver(decls)}
	out, _ := FormatFile(file, opt)
	return out
}

// GroupByReceiver turns a flat declaration list into top-level items.
func GroupByReceiver(decls []*ast.FnDecl) []ast.Item {
	var items []ast.Item
	blocks := make(map[string]*ast.ExternBlock)
	for _, d := range decls {
		if d.Receiver == nil {
			items = append(items, d)
			continue
		}
		key := d.Receiver.String()
		block, ok := blocks[key]
		if !ok {
			block = &ast.ExternBlock{Target: d.Receiver}
			blocks[key] = block
			items = append(items, block)
		}
		block.Decls = append(block.Decls, d)
	}
	return items
}

// Printed is a declaration that was already rendered by Decl. Receiver
// holds the printed extern target, empty for free functions.
type Printed struct {
	Receiver string
	Text     string
}

// PrintedOf renders d for FormatPrinted.
func PrintedOf(d *ast.FnDecl, opt Options) Printed {
	out := Printed{Text: Decl(d, opt)}
	if d.Receiver != nil {
		out.Receiver = Type(d.Receiver)
	}
	return out
}

// FormatPrinted lays out printed declarations exactly like FormatDecls.
func FormatPrinted(decls []Printed, opt Options) []byte {
	type group struct {
		target string
		texts  []string
	}
	var items []*group
	blocks := make(map[string]*group)
	for _, d := range decls {
		if d.Receiver == "" {
			items = append(items, &group{texts: []string{d.Text}})
			continue
		}
		g, ok := blocks[d.Receiver]
		if !ok {
			g = &group{target: d.Receiver}
			blocks[d.Receiver] = g
			items = append(items, g)
		}
		g.texts = append(g.texts, d.Text)
	}

	p := newPrinter(opt)
	for i, it := range items {
		if i > 0 {
			p.writer.BlankLine()
		}
		if it.target == "" {
			p.writeLines(it.texts[0])
			continue
		}
		p.writer.WriteString("extern<" + it.target + "> {")
		p.writer.Newline()
		p.writer.IndentPush()
		for j, text := range it.texts {
			if j > 0 {
				p.writer.BlankLine()
			}
			p.writeLines(text)
		}
		p.writer.IndentPop()
		p.writer.Newline()
		p.writer.WriteString("}")
	}
	p.writer.Newline()
	return p.writer.Bytes()
}

// writeLines re-indents text at the current level.
func (p *printer) writeLines(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.writer.Newline()
			if line == "" {
				p.writer.buf = append(p.writer.buf, '\n')
				continue
			}
		}
		p.writer.WriteString(line)
	}
}

func (p *printer) printItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnDecl:
		p.printFnDecl(it)
	case *ast.ExternBlock:
		p.printExtern(it)
	default:
		panic("format: unexpected item type")
	}
}

func (p *printer) printExtern(b *ast.ExternBlock) {
	p.writer.WriteString("extern<")
	p.printType(b.Target)
	p.writer.WriteString("> {")
	p.writer.Newline()
	p.writer.IndentPush()
	for i, d := range b.Decls {
		if i > 0 {
			p.writer.BlankLine()
		}
		p.printFnDecl(d)
	}
	p.writer.IndentPop()
	p.writer.Newline()
	p.writer.WriteString("}")
}

// Decl prints a single declaration without its extern wrapper.
func Decl(d *ast.FnDecl, opt Options) string {
	p := newPrinter(opt)
	p.printFnDecl(d)
	return p.writer.String()
}

// Type prints t in source form.
func Type(t *ast.Type) string {
	p := newPrinter(Options{})
	p.printType(t)
	return p.writer.String()
}

// Expr prints e on one line where possible; closures and if-expressions
// span several lines.
func Expr(e ast.Expr) string {
	p := newPrinter(Options{})
	p.printExpr(e)
	return p.writer.String()
}

// Stmts prints statements one per line.
func Stmts(stmts []ast.Stmt, opt Options) string {
	p := newPrinter(opt)
	p.printStmts(stmts)
	return p.writer.String()
}
