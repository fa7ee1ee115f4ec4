package parser

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/token"
)

// parseType: ('inout' | 'const')* named '?'*
func (p *Parser) parseType() (*ast.Type, bool) {
	if p.atOr(token.KwInout, token.KwConst) {
		spec := p.advance()
		inner, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.Type{
			Kind:  ast.TypeAttributed,
			Inout: spec.Kind == token.KwInout,
			Const: spec.Kind == token.KwConst,
			Elem:  inner,
			Span:  spec.Span.Cover(inner.Span),
		}, true
	}

	ty, ok := p.parseNamedType()
	if !ok {
		return nil, false
	}
	// `T??` приходит из лексера одним токеном
	for p.atOr(token.Question, token.QuestionQuestion) {
		q := p.advance()
		if q.Kind == token.QuestionQuestion {
			ty = &ast.Type{Kind: ast.TypeOptional, Elem: ty, Span: ty.Span}
		}
		ty = &ast.Type{Kind: ast.TypeOptional, Elem: ty, Span: ty.Span.Cover(q.Span)}
	}
	return ty, true
}

// parseNamedType: ident ('.' ident)* ('<' typeArg (',' typeArg)* '>')?
func (p *Parser) parseNamedType() (*ast.Type, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, got \""+p.lx.Peek().Text+"\"")
		return nil, false
	}
	first := p.advance()
	ty := &ast.Type{Kind: ast.TypeNamed, Path: []string{first.Text}, Span: first.Span}

	for p.at(token.Dot) {
		p.advance()
		seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type name after '.'")
		if !ok {
			return nil, false
		}
		ty.Path = append(ty.Path, seg.Text)
		ty.Span = ty.Span.Cover(seg.Span)
	}

	if !p.at(token.Lt) {
		return ty, true
	}
	p.advance()
	for {
		var arg *ast.Type
		if p.at(token.IntLit) {
			lit := p.advance()
			arg = &ast.Type{Kind: ast.TypeIntArg, Value: lit.Text, Span: lit.Span}
		} else {
			var ok bool
			if arg, ok = p.parseType(); !ok {
				return nil, false
			}
		}
		ty.Args = append(ty.Args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closing, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic arguments")
	if !ok {
		return nil, false
	}
	ty.Span = ty.Span.Cover(closing.Span)
	return ty, true
}
