package thunk

import "safethunk/internal/ast"

const boundsFailure = "bounds check failure when calling unsafe function"

// countedParam replaces a counted or sized pointer parameter with a view.
// A non-escaping parameter becomes a span and is accessed through a scoped
// withUnsafe... block; an escaping one becomes a buffer pointer.
type countedParam struct {
	base        Builder
	dc          *DeclContext
	info        *CountedBy
	index       int
	skipTrivial bool
}

func (b *countedParam) name() string       { return b.dc.ParamName(b.index) }
func (b *countedParam) oldType() *ast.Type { return b.dc.Param(b.index).Type }
func (b *countedParam) generateSpan() bool { return b.info.Nonescaping }
func (b *countedParam) nullable() bool     { return isNullable(b.oldType()) }

func (b *countedParam) countLabel() string {
	if b.info.SizedBy && b.generateSpan() {
		return "byteCount"
	}
	return "count"
}

// viewCount is the length of the view: `p.count`, or `p?.count ?? 0`.
func (b *countedParam) viewCount() ast.Expr {
	if b.nullable() {
		return ast.Bin(ast.OpCoalesce, ast.OptDot(ast.Id(b.name()), b.countLabel()), ast.Int("0"))
	}
	return ast.Dot(ast.Id(b.name()), b.countLabel())
}

func (b *countedParam) Signature(argTypes map[int]*ast.Type, ret *ast.Type) (ast.Signature, bool, error) {
	newType, mutableSpan, err := transformType(b.oldType(), b.generateSpan(), b.info.SizedBy, b.info.Original)
	if err != nil {
		return ast.Signature{}, false, err
	}
	if mutableSpan {
		newType = ast.Inout(newType)
	}
	types := withType(argTypes, b.index, newType)
	if b.skipTrivial && b.info.CountParam != 0 {
		types[b.info.CountParam] = nil
	}
	return b.base.Signature(types, ret)
}

func (b *countedParam) BoundsChecks() ([]ast.Stmt, error) {
	checks, err := b.base.BoundsChecks()
	if err != nil {
		return nil, err
	}
	countName := "_" + b.name() + "Count"
	cond := ast.Bin(ast.OpOr,
		ast.Bin(ast.OpLt, b.viewCount(), ast.Id(countName)),
		ast.Bin(ast.OpLt, ast.Id(countName), ast.Int("0")),
	)
	abort := ast.CallOf(ast.Id("abort"), ast.A("", &ast.StringLit{Value: boundsFailure}))
	return append(checks,
		&ast.Let{Name: countName, Value: b.info.Count},
		&ast.If{Cond: cond, Then: []ast.Stmt{&ast.ExprStmt{X: abort}}},
	), nil
}

func (b *countedParam) Call(argOverrides map[int]ast.Expr) (ast.Expr, error) {
	args := argOverrides
	if b.skipTrivial && b.info.CountParam != 0 {
		countParam := b.dc.Param(b.info.CountParam)
		args = withArg(args, b.info.CountParam, castIntToTargetType(b.viewCount(), countParam.Type))
	}
	_, taken := args[b.index]
	invariant(!taken, "argument %d of %s overridden twice", b.index, b.dc.Name())

	if !b.generateSpan() {
		return b.base.Call(withArg(args, b.index, b.bufferArg()))
	}

	ptrName := "_" + b.name() + "Ptr"
	var raw ast.Expr = ast.Dot(ast.Id(ptrName), "baseAddress")
	if !b.nullable() {
		raw = ast.Bang(raw)
	}
	call, err := b.base.Call(withArg(args, b.index, castPointerToOpaquePointer(raw, b.oldType())))
	if err != nil {
		return nil, err
	}
	var view ast.Expr = ast.Id(b.name())
	if b.nullable() {
		view = ast.Bang(view)
	}
	scoped := &ast.Call{
		Fun:      ast.Dot(view, b.accessorName()),
		Trailing: &ast.Closure{Params: []string{ptrName}, Body: []ast.Stmt{&ast.Return{X: call}}},
	}
	if !b.nullable() {
		return scoped, nil
	}

	nullCall, err := b.base.Call(withArg(args, b.index, &ast.NilLit{}))
	if err != nil {
		return nil, err
	}
	return &ast.IfExpr{
		Cond: ast.Bin(ast.OpEq, ast.Id(b.name()), &ast.NilLit{}),
		Then: nullCall,
		Else: scoped,
	}, nil
}

// bufferArg passes the base address of a buffer pointer view.
func (b *countedParam) bufferArg() ast.Expr {
	var raw ast.Expr
	if b.nullable() {
		raw = ast.OptDot(ast.Id(b.name()), "baseAddress")
	} else {
		raw = ast.Bang(ast.Dot(ast.Id(b.name()), "baseAddress"))
	}
	return castPointerToOpaquePointer(raw, b.oldType())
}

// accessorName: withUnsafe{Mutable}{BufferPointer|Bytes}.
func (b *countedParam) accessorName() string {
	name := "withUnsafe"
	if pointerShapes[pointerTypeName(b.oldType())].mutable {
		name += "Mutable"
	}
	if b.info.SizedBy {
		return name + "Bytes"
	}
	return name + "BufferPointer"
}
