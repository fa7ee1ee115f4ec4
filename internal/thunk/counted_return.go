package thunk

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
)

// countedReturn wraps the returned pointer into a view. The view is a span
// when the result has lifetime dependencies and a buffer pointer otherwise.
type countedReturn struct {
	base Builder
	dc   *DeclContext
	info *CountedBy
}

func (b *countedReturn) generateSpan() bool { return len(b.info.Dependencies) > 0 }

func (b *countedReturn) newType() (*ast.Type, error) {
	if b.dc.Result == nil {
		return nil, structural(PhaseBuild, diag.ThkReturnType, b.info.Original,
			"cannot annotate the return value of function %s, which returns nothing", b.dc.Name())
	}
	t, _, err := transformType(b.dc.Result, b.generateSpan(), b.info.SizedBy, b.info.Original)
	return t, err
}

func (b *countedReturn) Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error) {
	invariant(ret == nil, "return type of %s rewritten twice", b.dc.Name())
	t, err := b.newType()
	if err != nil {
		return ast.Signature{}, false, err
	}
	return b.base.Signature(argTypes, t)
}

func (b *countedReturn) BoundsChecks() ([]ast.Stmt, error) {
	return b.base.BoundsChecks()
}

func (b *countedReturn) Call(argOverrides map[int]ast.Expr) (ast.Expr, error) {
	call, err := b.base.Call(argOverrides)
	if err != nil {
		return nil, err
	}
	t, err := b.newType()
	if err != nil {
		return nil, err
	}
	view := t.Unwrap()
	startLabel, countLabel := "start", "count"
	if b.generateSpan() {
		startLabel = "_unsafeStart"
		if b.info.SizedBy {
			countLabel = "byteCount"
		}
	}
	wrap := func(start ast.Expr) ast.Expr {
		var e ast.Expr = ast.CallOf(&ast.TypeExpr{Type: view},
			ast.A(startLabel, start),
			ast.A(countLabel, ast.CallOf(ast.Id("Int"), ast.A("", b.info.Count))),
		)
		if b.generateSpan() {
			e = overrideLifetime(e)
		}
		return e
	}
	if !t.IsOptional() {
		return wrap(call), nil
	}

	const result = "_resultValue"
	body := []ast.Stmt{
		&ast.Let{Name: result, Value: call},
		&ast.If{
			Cond: ast.Bin(ast.OpEq, ast.Id(result), &ast.NilLit{}),
			Then: []ast.Stmt{&ast.Return{X: &ast.NilLit{}}},
			Else: []ast.Stmt{&ast.Return{X: wrap(ast.Bang(ast.Id(result)))}},
		},
	}
	return ast.CallOf(&ast.Closure{Body: body}), nil
}

// overrideLifetime marks e as deriving its lifetime from the call itself.
func overrideLifetime(e ast.Expr) ast.Expr {
	return ast.CallOf(ast.Id("_overrideLifetime"), ast.A("", e), ast.A("copying", &ast.Paren{}))
}
