package thunk

import (
	"maps"

	"safethunk/internal/ast"
)

// Builder is one link of the wrapper chain. Every decorator owns its base
// and delegates the positions it does not handle.
type Builder interface {
	// Signature rewrites the parameter types in argTypes (a nil value deletes
	// the parameter) and the result type when ret is not nil. The flag
	// reports that nothing but the result changed.
	Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error)
	// BoundsChecks returns the statements run before the call.
	BoundsChecks() ([]ast.Stmt, error)
	// Call builds the call of the original declaration; argOverrides replaces
	// the argument passed for a parameter.
	Call(argOverrides map[int]ast.Expr) (ast.Expr, error)
}

// callBuilder calls the original declaration with its own parameters.
type callBuilder struct {
	dc *DeclContext
}

func (b callBuilder) Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error) {
	var sig ast.Signature
	for i, p := range b.dc.Params {
		idx := i + 1
		t, overridden := argTypes[idx]
		if overridden && t == nil {
			continue
		}
		np := namedParam(p, idx)
		if overridden {
			np = np.WithType(t)
		}
		sig.Params = append(sig.Params, np)
	}
	sig.Result = b.dc.Result
	if ret != nil {
		sig.Result = ret
	}
	return sig, len(argTypes) == 0 && ret != nil, nil
}

func (b callBuilder) BoundsChecks() ([]ast.Stmt, error) {
	return nil, nil
}

func (b callBuilder) Call(argOverrides map[int]ast.Expr) (ast.Expr, error) {
	args := make([]*ast.Arg, 0, len(b.dc.Params))
	for i, p := range b.dc.Params {
		idx := i + 1
		value, ok := argOverrides[idx]
		if !ok {
			value = ast.Id(b.dc.ParamName(idx))
		}
		args = append(args, ast.A(p.Label(), value))
	}
	return ast.CallOf(ast.Id(b.dc.Decl.Name), args...), nil
}

// namedParam gives an unnamed parameter the synthetic name the body uses.
func namedParam(p *ast.Param, idx int) *ast.Param {
	name := p.InternalName(idx)
	if p.SecondName == name || (p.SecondName == "" && p.FirstName == name) {
		return p
	}
	cp := *p
	if cp.SecondName == "" {
		// `_: T` — метки нет, имя синтетическое
		cp.FirstName = "_"
	}
	cp.SecondName = name
	return &cp
}

// newChain folds the ordered records over the base builder; the first
// record ends up innermost.
func newChain(dc *DeclContext, infos []ParamInfo, skipTrivial bool) Builder {
	var b Builder = callBuilder{dc: dc}
	for _, info := range infos {
		b = decorate(b, dc, info, skipTrivial)
	}
	return b
}

func decorate(base Builder, dc *DeclContext, info ParamInfo, skipTrivial bool) Builder {
	switch info := info.(type) {
	case *CountedBy:
		if info.Pointer == Return {
			return &countedReturn{base: base, dc: dc, info: info}
		}
		return &countedParam{base: base, dc: dc, info: info, index: info.Pointer.Index, skipTrivial: skipTrivial}
	case *ForeignSpan:
		if info.Pointer == Return {
			return &foreignReturn{base: base, dc: dc, info: info}
		}
		return &foreignParam{base: base, dc: dc, info: info, index: info.Pointer.Index}
	default:
		panic("internal error: unknown ParamInfo variant")
	}
}

func withType(m map[int]*ast.Type, idx int, t *ast.Type) map[int]*ast.Type {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[int]*ast.Type)
	}
	out[idx] = t
	return out
}

func withArg(m map[int]ast.Expr, idx int, e ast.Expr) map[int]ast.Expr {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[int]ast.Expr)
	}
	out[idx] = e
	return out
}
