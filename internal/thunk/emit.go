package thunk

import "safethunk/internal/ast"

// Attributes the emitter owns; copies on the input are not carried over.
const (
	attrSafethunk  = "safethunk"
	attrInline     = "inline_at_use"
	attrLifetime   = "lifetime"
	attrDisfavored = "disfavored"
)

// emit assembles the wrapper: checks (unless elided), `return <call>;`, and
// the attribute list.
func emit(dc *DeclContext, chain Builder, lifetimes map[Position][]LifetimeDependence, skipTrivial bool) (*ast.FnDecl, error) {
	sig, onlyReturnChanged, err := chain.Signature(nil, nil)
	if err != nil {
		return nil, err
	}
	var body []ast.Stmt
	if !skipTrivial {
		if body, err = chain.BoundsChecks(); err != nil {
			return nil, err
		}
	}
	call, err := chain.Call(nil)
	if err != nil {
		return nil, err
	}
	body = append(body, &ast.Return{X: call})

	decl := dc.Decl
	attrs := make([]*ast.Attr, 0, len(decl.Attrs)+2)
	for _, a := range decl.Attrs {
		if a.Name == attrSafethunk || a.Name == attrInline {
			continue
		}
		attrs = append(attrs, a)
	}
	attrs = append(attrs, &ast.Attr{Name: attrInline})
	if a := returnLifetimeAttr(dc, lifetimes[Return]); a != nil {
		attrs = append(attrs, a)
	}
	attrs = append(attrs, paramLifetimeAttrs(sig, decl.Attrs)...)
	if onlyReturnChanged {
		attrs = append(attrs, &ast.Attr{Name: attrDisfavored})
	}

	return &ast.FnDecl{
		Doc:      decl.Doc,
		Attrs:    attrs,
		Pub:      decl.Pub,
		Name:     decl.Name,
		NameSpan: decl.NameSpan,
		Params:   sig.Params,
		Result:   sig.Result,
		Receiver: decl.Receiver,
		Body:     body,
		HasBody:  true,
		Span:     decl.Span,
	}, nil
}

// returnLifetimeAttr renders `@lifetime(borrow a, copy b)`.
func returnLifetimeAttr(dc *DeclContext, deps []LifetimeDependence) *ast.Attr {
	if len(deps) == 0 {
		return nil
	}
	attr := &ast.Attr{Name: attrLifetime, HasParens: true}
	for _, dep := range deps {
		attr.Args = append(attr.Args, ast.A("", &ast.Lifetime{Kind: dep.Kind.String(), Target: dc.PositionName(dep.DependsOn)}))
	}
	return attr
}

// paramLifetimeAttrs adds `@lifetime(p: copy p)` for every inout mutable
// span parameter the declaration does not already describe.
func paramLifetimeAttrs(sig ast.Signature, existing []*ast.Attr) []*ast.Attr {
	var out []*ast.Attr
	for _, p := range sig.Params {
		if !isMutableSpanParam(p.Type) {
			continue
		}
		name := p.SecondName
		if name == "" {
			name = p.FirstName
		}
		if hasLifetimeFor(existing, name) {
			continue
		}
		out = append(out, &ast.Attr{
			Name:      attrLifetime,
			HasParens: true,
			Args:      []*ast.Arg{ast.A(name, &ast.Lifetime{Kind: Copy.String(), Target: name})},
		})
	}
	return out
}

func isMutableSpanParam(t *ast.Type) bool {
	if !t.IsInout() {
		return false
	}
	switch t.StripSpecifiers().Unwrap().Name() {
	case "MutableSpan", "MutableRawSpan":
		return true
	}
	return false
}

func hasLifetimeFor(attrs []*ast.Attr, name string) bool {
	for _, a := range attrs {
		if a.Name != attrLifetime {
			continue
		}
		for _, arg := range a.Args {
			if arg.Label == name {
				return true
			}
		}
	}
	return false
}
