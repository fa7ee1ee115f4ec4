package parser

import (
	"safethunk/internal/diag"
	"safethunk/internal/source"
	"safethunk/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// На EOF указываем сразу за последним съеденным токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// expectSemicolon reports a missing ';' right after the previous token and
// offers to insert it.
func (p *Parser) expectSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	at := p.lastSpan.ZeroideToEnd()
	if p.countError() {
		diag.ReportError(p.opts.Reporter, diag.SynExpectSemicolon, at, "expected ';' after declaration").
			WithFix("insert ';'", diag.FixEdit{Span: at, NewText: ";"}).
			Emit()
	}
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError && !p.countError() {
		return false
	}
	if p.opts.Reporter == nil {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// countError учитывает ошибку и сообщает, можно ли её ещё репортить.
func (p *Parser) countError() bool {
	if p.opts.Enough() {
		return false
	}
	p.opts.CurrentErrors++
	return p.opts.Reporter != nil
}

// resyncUntil прокручивает токены до одного из stop (не съедая его) или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		p.advance()
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.At, token.KwFn, token.KwPub, token.KwExtern, token.RBrace)
	if p.atOr(token.Semicolon, token.RBrace) {
		p.advance()
	}
}

// parseName ожидает идентификатор (или `_`) и возвращает его текст.
func (p *Parser) parseName(what string) (token.Token, bool) {
	if p.atOr(token.Ident, token.Underscore) {
		return p.advance(), true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", got \""+p.lx.Peek().Text+"\"")
	return p.lx.Peek(), false
}
