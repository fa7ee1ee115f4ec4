package ast

import (
	"strings"

	"safethunk/internal/source"
)

type TypeKind uint8

const (
	// TypeNamed is `A.B<Args>`.
	TypeNamed TypeKind = iota
	// TypeOptional is `Elem?`.
	TypeOptional
	// TypeAttributed is `inout Elem` / `const Elem`.
	TypeAttributed
	// TypeIntArg is an integer literal used as a generic argument.
	TypeIntArg
)

// Type is a small tagged struct rather than an interface: types are
// compared, printed and rebuilt far more often than they are extended.
type Type struct {
	Kind  TypeKind
	Path  []string // TypeNamed
	Args  []*Type  // TypeNamed
	Elem  *Type    // TypeOptional, TypeAttributed
	Inout bool     // TypeAttributed
	Const bool     // TypeAttributed
	Value string   // TypeIntArg
	Span  source.Span
}

func (t *Type) Pos() source.Span { return t.Span }

// Named builds `path<args>`; path segments may contain dots.
func Named(path string, args ...*Type) *Type {
	return &Type{Kind: TypeNamed, Path: strings.Split(path, "."), Args: args}
}

// Optional wraps t in `?`.
func Optional(t *Type) *Type {
	return &Type{Kind: TypeOptional, Elem: t}
}

// Inout marks t as `inout`.
func Inout(t *Type) *Type {
	return &Type{Kind: TypeAttributed, Inout: true, Elem: t}
}

// Name returns the dotted path of a named type, "" for other kinds.
func (t *Type) Name() string {
	if t == nil || t.Kind != TypeNamed {
		return ""
	}
	return strings.Join(t.Path, ".")
}

// IsOptional reports whether t is `T?`.
func (t *Type) IsOptional() bool {
	return t != nil && t.Kind == TypeOptional
}

// Unwrap peels one optional layer; other types are returned unchanged.
func (t *Type) Unwrap() *Type {
	if t.IsOptional() {
		return t.Elem
	}
	return t
}

// IsInout reports whether t carries the `inout` specifier.
func (t *Type) IsInout() bool {
	return t != nil && t.Kind == TypeAttributed && t.Inout
}

// StripSpecifiers removes `inout` and `const` layers, keeping `?`.
func (t *Type) StripSpecifiers() *Type {
	for t != nil && t.Kind == TypeAttributed {
		t = t.Elem
	}
	return t
}

// String prints t in source form.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case TypeNamed:
		b.WriteString(strings.Join(t.Path, "."))
		if len(t.Args) > 0 {
			b.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte('>')
		}
	case TypeOptional:
		t.Elem.write(b)
		b.WriteByte('?')
	case TypeAttributed:
		if t.Inout {
			b.WriteString("inout ")
		}
		if t.Const {
			b.WriteString("const ")
		}
		t.Elem.write(b)
	case TypeIntArg:
		b.WriteString(t.Value)
	}
}

// Equal compares two types structurally, ignoring spans.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Inout != o.Inout || t.Const != o.Const || t.Value != o.Value {
		return false
	}
	if len(t.Path) != len(o.Path) || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Path {
		if t.Path[i] != o.Path[i] {
			return false
		}
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return t.Elem.Equal(o.Elem)
}
