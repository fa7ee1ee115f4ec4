// Package ast is the declaration model shared by the parser, the wrapper
// synthesizer and the printer.
//
// Nodes form a plain pointer tree. Parsed nodes carry the span of their
// source text; synthesized nodes have a zero span. Nodes are treated as
// immutable once built: stages that rewrite a declaration build new nodes
// and share unchanged subtrees.
package ast

import "safethunk/internal/source"

// Node is implemented by every syntax node.
type Node interface {
	Pos() source.Span
}

// File is one parsed interface file.
type File struct {
	ID    source.FileID
	Items []Item
	Span  source.Span
}

// Item is a top-level declaration: *FnDecl or *ExternBlock.
type Item interface {
	Node
	item()
}

// ExternBlock groups methods of Target: `extern<T> { ... }`.
type ExternBlock struct {
	Target *Type
	Decls  []*FnDecl
	Span   source.Span
}

func (b *ExternBlock) Pos() source.Span { return b.Span }
func (*ExternBlock) item()              {}
func (*FnDecl) item()                   {}

// Decls returns every function declaration of f, methods included, in
// source order.
func (f *File) Decls() []*FnDecl {
	var out []*FnDecl
	for _, it := range f.Items {
		switch it := it.(type) {
		case *FnDecl:
			out = append(out, it)
		case *ExternBlock:
			out = append(out, it.Decls...)
		}
	}
	return out
}
