package thunk

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
)

// DeclContext is the read-only view of the declaration every stage works on.
type DeclContext struct {
	Decl     *ast.FnDecl
	Params   []*ast.Param
	Result   *ast.Type
	Receiver *ast.Type

	names map[string]int // NFC internal name -> 1-based index
}

func NewDeclContext(decl *ast.FnDecl) *DeclContext {
	dc := &DeclContext{
		Decl:     decl,
		Params:   decl.Params,
		Result:   decl.Result,
		Receiver: decl.Receiver,
		names:    make(map[string]int, len(decl.Params)),
	}
	for i, p := range decl.Params {
		key := norm.NFC.String(p.InternalName(i + 1))
		if _, dup := dc.names[key]; !dup {
			dc.names[key] = i + 1
		}
	}
	return dc
}

func (dc *DeclContext) Name() string { return dc.Decl.QualifiedName() }

func (dc *DeclContext) ParamCount() int { return len(dc.Params) }

// Param returns the parameter at the 1-based index i.
func (dc *DeclContext) Param(i int) *ast.Param {
	invariant(i >= 1 && i <= len(dc.Params), "parameter index %d of %s used after validation", i, dc.Name())
	return dc.Params[i-1]
}

// ParamName is the name the wrapper body uses for parameter i.
func (dc *DeclContext) ParamName(i int) string {
	return dc.Param(i).InternalName(i)
}

// PositionName names p inside lifetime attributes.
func (dc *DeclContext) PositionName(p Position) string {
	switch p.Kind {
	case PosParam:
		return dc.ParamName(p.Index)
	case PosSelf:
		return "self"
	default:
		panic("internal error: return position has no name")
	}
}

// LookupParam resolves an identifier against the parameter names. at is the
// node the error is reported on.
func (dc *DeclContext) LookupParam(name string, at ast.Node) (int, error) {
	if i, ok := dc.names[norm.NFC.String(name)]; ok {
		return i, nil
	}
	err := structural(PhaseParse, diag.ThkCountReference, at, "no parameter named '%s' in function %s", name, dc.Name())
	if len(dc.Params) == 0 {
		return 0, err.withNote(dc.Decl.NameSpan, "function "+dc.Name()+" has no parameters")
	}
	names := make([]string, len(dc.Params))
	for i, p := range dc.Params {
		names[i] = p.InternalName(i + 1)
	}
	return 0, err.withNote(dc.Decl.NameSpan, "parameters of "+dc.Name()+": "+strings.Join(names, ", "))
}

// indexNote describes the valid parameter range of the declaration.
func (dc *DeclContext) indexNote(e *Error) *Error {
	if len(dc.Params) == 0 {
		return e.withNote(dc.Decl.NameSpan, "function "+dc.Name()+" has no parameters")
	}
	return e.withNote(dc.Decl.NameSpan, "function "+dc.Name()+" has parameter indices 1.."+strconv.Itoa(len(dc.Params)))
}
