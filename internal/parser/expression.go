package parser

import (
	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/token"
)

func binaryOp(k token.Kind) (ast.BinaryOp, bool) {
	switch k {
	case token.Plus:
		return ast.OpAdd, true
	case token.Minus:
		return ast.OpSub, true
	case token.Star:
		return ast.OpMul, true
	case token.Slash:
		return ast.OpDiv, true
	case token.Percent:
		return ast.OpRem, true
	case token.EqEq:
		return ast.OpEq, true
	case token.BangEq:
		return ast.OpNe, true
	case token.Lt:
		return ast.OpLt, true
	case token.LtEq:
		return ast.OpLe, true
	case token.Gt:
		return ast.OpGt, true
	case token.GtEq:
		return ast.OpGe, true
	case token.AndAnd:
		return ast.OpAnd, true
	case token.OrOr:
		return ast.OpOr, true
	case token.QuestionQuestion:
		return ast.OpCoalesce, true
	}
	return 0, false
}

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(1)
}

// parseBinary — precedence climbing; '??' правоассоциативен, остальные — левые.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, isOp := binaryOp(p.lx.Peek().Kind)
		if !isOp || op.Prec() < minPrec {
			return left, true
		}
		p.advance()
		next := op.Prec() + 1
		if op == ast.OpCoalesce {
			next = op.Prec()
		}
		right, ok := p.parseBinary(next)
		if !ok {
			return nil, false
		}
		left = &ast.Binary{Op: op, X: left, Y: right, Span: left.Pos().Cover(right.Pos())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	if p.atOr(token.Minus, token.Bang) {
		tok := p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		op := ast.OpNeg
		if tok.Kind == token.Bang {
			op = ast.OpNot
		}
		return &ast.Unary{Op: op, X: x, Span: tok.Span.Cover(x.Pos())}, true
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.Dot, token.QuestionDot:
			opt := p.advance().Kind == token.QuestionDot
			name := p.lx.Peek()
			if !name.IsNameLike() {
				p.err(diag.SynExpectIdentifier, "expected member name, got \""+name.Text+"\"")
				return nil, false
			}
			p.advance()
			x = &ast.Member{X: x, Name: name.Text, Optional: opt, Span: x.Pos().Cover(name.Span)}
		case token.LParen:
			p.advance()
			args, ok := p.parseArgs(token.RParen)
			if !ok {
				return nil, false
			}
			x = &ast.Call{Fun: x, Args: args, Span: x.Pos().Cover(p.lastSpan)}
		case token.Bang:
			bang := p.advance()
			x = &ast.ForceUnwrap{X: x, Span: x.Pos().Cover(bang.Span)}
		default:
			return x, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Ident{Name: tok.Text, Span: tok.Span}, true
	case token.IntLit:
		p.advance()
		return &ast.IntLit{Text: tok.Text, Span: tok.Span}, true
	case token.StringLit:
		p.advance()
		value, err := Unquote(tok.Text)
		if err != nil {
			p.report(diag.LexBadEscape, diag.SevError, tok.Span, err.Error())
			return nil, false
		}
		return &ast.StringLit{Raw: tok.Text, Value: value, Span: tok.Span}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: tok.Kind == token.KwTrue, Span: tok.Span}, true
	case token.KwNil:
		p.advance()
		return &ast.NilLit{Span: tok.Span}, true
	case token.Dot:
		p.advance()
		name := p.lx.Peek()
		if !name.IsNameLike() {
			p.err(diag.SynExpectIdentifier, "expected case name after '.'")
			return nil, false
		}
		p.advance()
		return &ast.ImplicitMember{Name: name.Text, Span: tok.Span.Cover(name.Span)}, true
	case token.LParen:
		p.advance()
		if p.at(token.RParen) {
			closing := p.advance()
			return &ast.Paren{Span: tok.Span.Cover(closing.Span)}, true
		}
		x, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closing, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'")
		if !ok {
			return nil, false
		}
		return &ast.Paren{X: x, Span: tok.Span.Cover(closing.Span)}, true
	case token.LBracket:
		return p.parseDict()
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
		return nil, false
	}
}

// parseDict: '[' (expr ':' expr (',' expr ':' expr)* ','?)? ']' | '[' ':' ']'
func (p *Parser) parseDict() (ast.Expr, bool) {
	open := p.advance()
	dict := &ast.Dict{}
	if p.at(token.Colon) {
		p.advance()
	} else {
		for !p.atOr(token.RBracket, token.EOF) {
			key, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' in dictionary literal"); !ok {
				return nil, false
			}
			value, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			dict.Entries = append(dict.Entries, ast.DictEntry{Key: key, Value: value})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close dictionary literal")
	if !ok {
		return nil, false
	}
	dict.Span = open.Span.Cover(closing.Span)
	return dict, true
}

// parseArgs разбирает аргументы до closing (сам closing съедается).
// arg := (ident ':')? expr ; внутри @lifetime допускается `borrow x` / `copy x`.
func (p *Parser) parseArgs(closing token.Kind) ([]*ast.Arg, bool) {
	var args []*ast.Arg
	for !p.atOr(closing, token.EOF) {
		arg, ok := p.parseArg()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(closing, diag.SynUnclosedDelimiter, "expected '"+closing.String()+"' to close argument list"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseArg() (*ast.Arg, bool) {
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	arg := &ast.Arg{Value: value, Span: value.Pos()}

	if id, isIdent := value.(*ast.Ident); isIdent && p.at(token.Colon) {
		p.advance()
		if value, ok = p.parseExpr(); !ok {
			return nil, false
		}
		arg.Label = id.Name
		arg.Value = value
		arg.Span = id.Span.Cover(value.Pos())
	}
	if id, isIdent := arg.Value.(*ast.Ident); isIdent && (id.Name == "borrow" || id.Name == "copy") && p.atOr(token.Ident, token.Underscore) {
		target := p.advance()
		arg.Value = &ast.Lifetime{Kind: id.Name, Target: target.Text, Span: id.Span.Cover(target.Span)}
		arg.Span = arg.Span.Cover(target.Span)
	}
	return arg, true
}
