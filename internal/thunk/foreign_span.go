package thunk

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/parser"
)

// foreignElement desugars the foreign type t through the mapping table and
// returns the span element type and whether the element is const.
func foreignElement(info *ForeignSpan, t *ast.Type) (*ast.Type, bool, error) {
	key := mappingKey(t)
	desugared, ok := info.TypeMappings[key]
	if !ok {
		return nil, false, structural(PhaseBuild, diag.ThkForeignMapping, info.Original, "unable to desugar type with name '%s'", key)
	}
	parsed, err := parser.ParseType(desugared)
	if err != nil {
		return nil, false, structural(PhaseBuild, diag.ThkForeignMapping, info.Original, "unable to desugar type with name '%s': %v", key, err)
	}
	if parsed.Kind != ast.TypeNamed || !isSpanTemplate(parsed.Name()+"<") {
		return nil, false, structural(PhaseBuild, diag.ThkForeignMapping, info.Original, "expected std.span type for '%s', got '%s'", key, desugared)
	}
	if len(parsed.Args) == 0 {
		return nil, false, structural(PhaseBuild, diag.ThkForeignMapping, info.Original, "expected generic type in '%s'", desugared)
	}
	elem := parsed.Args[0]
	isConst := elem.Kind == ast.TypeAttributed && elem.Const
	return elem.StripSpecifiers(), isConst, nil
}

// foreignParam passes a Span or MutableSpan where the declaration takes a
// foreign span type.
type foreignParam struct {
	base  Builder
	dc    *DeclContext
	info  *ForeignSpan
	index int
}

func (b *foreignParam) name() string       { return b.dc.ParamName(b.index) }
func (b *foreignParam) oldType() *ast.Type { return b.dc.Param(b.index).Type }

func (b *foreignParam) Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error) {
	elem, isConst, err := foreignElement(b.info, b.oldType())
	if err != nil {
		return ast.Signature{}, false, err
	}
	t := ast.Named("Span", elem)
	if !isConst {
		t = ast.Inout(ast.Named("MutableSpan", elem))
	}
	return b.base.Signature(withType(argTypes, b.index, t), ret)
}

func (b *foreignParam) BoundsChecks() ([]ast.Stmt, error) {
	return b.base.BoundsChecks()
}

func (b *foreignParam) Call(argOverrides map[int]ast.Expr) (ast.Expr, error) {
	_, isConst, err := foreignElement(b.info, b.oldType())
	if err != nil {
		return nil, err
	}
	_, taken := argOverrides[b.index]
	invariant(!taken, "argument %d of %s overridden twice", b.index, b.dc.Name())

	foreign := &ast.TypeExpr{Type: b.oldType().StripSpecifiers().Unwrap()}
	if isConst {
		return b.base.Call(withArg(argOverrides, b.index, ast.CallOf(foreign, ast.A("", ast.Id(b.name())))))
	}
	ptrName := "_" + b.name() + "Ptr"
	call, err := b.base.Call(withArg(argOverrides, b.index, ast.CallOf(foreign, ast.A("", ast.Id(ptrName)))))
	if err != nil {
		return nil, err
	}
	return &ast.Call{
		Fun:      ast.Dot(ast.Id(b.name()), "withUnsafeMutableBufferPointer"),
		Trailing: &ast.Closure{Params: []string{ptrName}, Body: []ast.Stmt{&ast.Return{X: call}}},
	}, nil
}

// foreignReturn turns a returned foreign span into a Span that borrows from
// the declared dependencies.
type foreignReturn struct {
	base Builder
	dc   *DeclContext
	info *ForeignSpan
}

func (b *foreignReturn) viewName(isConst bool) string {
	if isConst {
		return "Span"
	}
	return "MutableSpan"
}

func (b *foreignReturn) Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error) {
	invariant(ret == nil, "return type of %s rewritten twice", b.dc.Name())
	elem, isConst, err := foreignElement(b.info, b.dc.Result)
	if err != nil {
		return ast.Signature{}, false, err
	}
	return b.base.Signature(argTypes, ast.Named(b.viewName(isConst), elem))
}

func (b *foreignReturn) BoundsChecks() ([]ast.Stmt, error) {
	return b.base.BoundsChecks()
}

func (b *foreignReturn) Call(argOverrides map[int]ast.Expr) (ast.Expr, error) {
	_, isConst, err := foreignElement(b.info, b.dc.Result)
	if err != nil {
		return nil, err
	}
	call, err := b.base.Call(argOverrides)
	if err != nil {
		return nil, err
	}
	return overrideLifetime(ast.CallOf(ast.Id(b.viewName(isConst)), ast.A("_unsafeCxxSpan", call))), nil
}
