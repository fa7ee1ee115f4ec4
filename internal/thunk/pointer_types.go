package thunk

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
)

type pointerShape struct {
	mutable bool
	raw     bool
}

var pointerShapes = map[string]pointerShape{
	"UnsafePointer":           {},
	"UnsafeMutablePointer":    {mutable: true},
	"UnsafeRawPointer":        {raw: true},
	"UnsafeMutableRawPointer": {mutable: true, raw: true},
	"OpaquePointer":           {raw: true},
}

// safeTypeName picks the view type replacing a pointer.
func safeTypeName(shape pointerShape, span bool) string {
	switch {
	case span && shape.raw && shape.mutable:
		return "MutableRawSpan"
	case span && shape.raw:
		return "RawSpan"
	case span && shape.mutable:
		return "MutableSpan"
	case span:
		return "Span"
	case shape.raw && shape.mutable:
		return "UnsafeMutableRawBufferPointer"
	case shape.raw:
		return "UnsafeRawBufferPointer"
	case shape.mutable:
		return "UnsafeMutableBufferPointer"
	default:
		return "UnsafeBufferPointer"
	}
}

// transformType maps a raw pointer type to its safe view. Optionals are
// peeled and re-wrapped; `inout`/`const` on the input are dropped. The
// second result reports a mutable span, which parameters take `inout`.
func transformType(prev *ast.Type, span, sizedBy bool, node ast.Node) (*ast.Type, bool, error) {
	switch prev.Kind {
	case ast.TypeAttributed:
		return transformType(prev.Elem, span, sizedBy, node)
	case ast.TypeOptional:
		inner, mutableSpan, err := transformType(prev.Elem, span, sizedBy, node)
		if err != nil {
			return nil, false, err
		}
		return ast.Optional(inner), mutableSpan, nil
	}

	name := prev.Name()
	shape, ok := pointerShapes[name]
	if !ok {
		first := name
		if prev.Kind == ast.TypeNamed {
			first = prev.Path[0]
		}
		return nil, false, structural(PhaseBuild, diag.ThkPointerType, node,
			"expected Unsafe[Mutable][Raw]Pointer type for type %s - first type token is '%s'", prev, first)
	}
	if shape.raw && !sizedBy {
		return nil, false, structural(PhaseBuild, diag.ThkPointerType, node, "raw pointers only supported for sizedBy")
	}
	if !shape.raw && sizedBy {
		return nil, false, structural(PhaseBuild, diag.ThkPointerType, node, "sizedBy only supported for raw pointers")
	}

	safe := ast.Named(safeTypeName(shape, span))
	if !shape.raw {
		if len(prev.Args) != 1 {
			return nil, false, structural(PhaseBuild, diag.ThkPointerType, node, "expected one generic argument in %s", prev)
		}
		safe.Args = []*ast.Type{prev.Args[0]}
	}
	return safe, span && shape.mutable, nil
}

// pointerTypeName is the pointer type under optionals and specifiers.
func pointerTypeName(t *ast.Type) string {
	return t.StripSpecifiers().Unwrap().StripSpecifiers().Name()
}

func isNullable(t *ast.Type) bool {
	return t.StripSpecifiers().IsOptional()
}

// castIntToTargetType converts an Int-valued expression for a parameter of type t.
func castIntToTargetType(e ast.Expr, t *ast.Type) ast.Expr {
	target := t.StripSpecifiers()
	if target.Name() == "Int" {
		return e
	}
	return ast.Bang(ast.CallOf(&ast.TypeExpr{Type: target}, ast.A("exactly", e)))
}

// castPointerToOpaquePointer wraps e in OpaquePointer(...) when the original
// parameter was declared as one.
func castPointerToOpaquePointer(e ast.Expr, original *ast.Type) ast.Expr {
	if pointerTypeName(original) != "OpaquePointer" {
		return e
	}
	return ast.CallOf(ast.Id("OpaquePointer"), ast.A("", e))
}
