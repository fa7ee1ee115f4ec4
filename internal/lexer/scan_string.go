package lexer

import (
	"safethunk/internal/diag"
	"safethunk/internal/token"
)

// "..." с escape \" \\ \n \t \r \0 \u{XXXX}. Text хранит литерал вместе с кавычками;
// значение раскрывает parser.Unquote.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp.Start, sp.End)}
		case '\\':
			lx.scanEscape()
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp.Start, sp.End)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp.Start, sp.End)}
}

func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if lx.cursor.EOF() {
		return
	}
	switch lx.cursor.Bump() {
	case '"', '\\', 'n', 't', 'r', '0':
		return
	case 'u':
		if !lx.cursor.Eat('{') {
			break
		}
		n := 0
		for isHex(lx.cursor.Peek()) && !lx.cursor.EOF() {
			lx.cursor.Bump()
			n++
		}
		if n > 0 && n <= 6 && lx.cursor.Eat('}') {
			return
		}
	}
	lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid escape sequence")
}
