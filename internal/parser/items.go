package parser

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/source"
	"safethunk/internal/token"
)

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.Item, bool) {
	switch p.lx.Peek().Kind {
	case token.At, token.KwPub, token.KwFn:
		return p.parseFnDecl(nil)
	case token.KwExtern:
		return p.parseExtern()
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected 'fn' or 'extern', got \""+p.lx.Peek().Text+"\"")
		p.advance()
		return nil, false
	}
}

// parseExtern: extern<Type> { (attr* fn)* }
func (p *Parser) parseExtern() (*ast.ExternBlock, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.Lt, diag.SynUnexpectedToken, "expected '<' after 'extern'"); !ok {
		return nil, false
	}
	target, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close extern target"); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open extern block"); !ok {
		return nil, false
	}

	block := &ast.ExternBlock{Target: target}
	for !p.atOr(token.RBrace, token.EOF) {
		if !p.atOr(token.At, token.KwPub, token.KwFn) {
			p.err(diag.SynIllegalItemInExtern, "only function declarations are allowed inside extern blocks")
			p.resyncUntil(token.Semicolon, token.At, token.KwFn, token.KwPub, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		decl, ok := p.parseFnDecl(target)
		if !ok {
			p.resyncUntil(token.Semicolon, token.At, token.KwFn, token.KwPub, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		block.Decls = append(block.Decls, decl)
	}
	closing, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close extern block")
	block.Span = kw.Span.Cover(closing.Span)
	return block, ok
}

// parseFnDecl: attr* 'pub'? 'fn' name '(' params ')' ('->' type)? (';' | block)
func (p *Parser) parseFnDecl(receiver *ast.Type) (*ast.FnDecl, bool) {
	first := p.lx.Peek()
	decl := &ast.FnDecl{Doc: first.DocComment(), Receiver: receiver}

	for p.at(token.At) {
		attr, ok := p.parseAttr()
		if !ok {
			return nil, false
		}
		decl.Attrs = append(decl.Attrs, attr)
	}
	if p.at(token.KwPub) {
		p.advance()
		decl.Pub = true
	}
	if _, ok := p.expect(token.KwFn, diag.SynUnexpectedToken, "expected 'fn' after attributes"); !ok {
		return nil, false
	}
	name, ok := p.parseName("function name")
	if !ok {
		return nil, false
	}
	decl.Name, decl.NameSpan = name.Text, name.Span

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	for !p.atOr(token.RParen, token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		decl.Params = append(decl.Params, param)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list"); !ok {
		return nil, false
	}

	if p.at(token.Arrow) {
		p.advance()
		result, ok := p.parseType()
		if !ok {
			return nil, false
		}
		decl.Result = result
	}

	if p.at(token.LBrace) {
		end, ok := p.skipBlock()
		decl.HasBody = true
		decl.Span = first.Span.Cover(end)
		return decl, ok
	}
	end := p.lastSpan
	if !p.expectSemicolon() {
		return nil, false
	}
	decl.Span = first.Span.Cover(end)
	return decl, true
}

// parseParam: first [second] ':' type
func (p *Parser) parseParam() (*ast.Param, bool) {
	first, ok := p.parseName("parameter name")
	if !ok {
		return nil, false
	}
	param := &ast.Param{FirstName: first.Text}
	if p.atOr(token.Ident, token.Underscore) {
		param.SecondName = p.advance().Text
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); !ok {
		return nil, false
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	param.Type = ty
	param.Span = first.Span.Cover(ty.Span)
	return param, true
}

// parseAttr: '@' ident ('(' args? ')')?
func (p *Parser) parseAttr() (*ast.Attr, bool) {
	at := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name after '@'")
	if !ok {
		return nil, false
	}
	attr := &ast.Attr{Name: name.Text, Span: at.Span.Cover(name.Span)}
	if !p.at(token.LParen) {
		return attr, true
	}
	p.advance()
	attr.HasParens = true
	args, ok := p.parseArgs(token.RParen)
	if !ok {
		return nil, false
	}
	attr.Args = args
	attr.Span = attr.Span.Cover(p.lastSpan)
	return attr, true
}

// skipBlock пропускает сбалансированный блок { ... } и возвращает span '}'.
func (p *Parser) skipBlock() (source.Span, bool) {
	open := p.advance()
	depth := 1
	for depth > 0 {
		tok := p.advance()
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		case token.EOF:
			p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed '{' in function body")
			return open.Span, false
		}
	}
	return p.lastSpan, true
}
