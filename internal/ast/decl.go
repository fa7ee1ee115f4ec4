package ast

import (
	"strconv"

	"safethunk/internal/source"
)

// FnDecl is `attr* pub? fn name(params) -> Result`.
type FnDecl struct {
	Doc      []string
	Attrs    []*Attr
	Pub      bool
	Name     string
	NameSpan source.Span
	Params   []*Param
	Result   *Type // nil when the function returns nothing
	Receiver *Type // target of the enclosing extern block, nil for free functions
	Body     []Stmt
	HasBody  bool
	Span     source.Span
}

func (d *FnDecl) Pos() source.Span { return d.Span }

// QualifiedName is `Type.name` for methods and `name` otherwise.
func (d *FnDecl) QualifiedName() string {
	if d.Receiver == nil {
		return d.Name
	}
	return d.Receiver.String() + "." + d.Name
}

// Signature returns the parameter list and result of d.
func (d *FnDecl) Signature() Signature {
	return Signature{Params: d.Params, Result: d.Result}
}

// Attr finds the first attribute named name.
func (d *FnDecl) Attr(name string) *Attr {
	for _, a := range d.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Signature is the rewritable part of a declaration.
type Signature struct {
	Params []*Param
	Result *Type
}

// Param is `first [second]: Type`. With one name it is both the argument
// label and the internal name. `_` as the first name means no label; `_` as
// the second name means the parameter is unnamed.
type Param struct {
	FirstName  string
	SecondName string
	Type       *Type
	Span       source.Span
}

func (p *Param) Pos() source.Span { return p.Span }

// Label is the argument label used at call sites, "" when there is none.
func (p *Param) Label() string {
	if p.FirstName == "_" {
		return ""
	}
	return p.FirstName
}

// InternalName is the name the parameter is referenced by inside the body.
// Unnamed parameters get `_paramN`, N being the 1-based ordinal.
func (p *Param) InternalName(ordinal int) string {
	name := p.FirstName
	if p.SecondName != "" {
		name = p.SecondName
	}
	if name == "_" {
		return "_param" + strconv.Itoa(ordinal)
	}
	return name
}

// WithType returns a copy of p with its type replaced.
func (p *Param) WithType(t *Type) *Param {
	cp := *p
	cp.Type = t
	return &cp
}

// Attr is `@name` or `@name(args)`.
type Attr struct {
	Name      string
	Args      []*Arg
	HasParens bool
	Span      source.Span
}

func (a *Attr) Pos() source.Span { return a.Span }

// Arg is a possibly labeled argument of a call or attribute.
type Arg struct {
	Label string
	Value Expr
	Span  source.Span
}

func (a *Arg) Pos() source.Span { return a.Span }
