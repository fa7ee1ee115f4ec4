package lexer

import (
	"safethunk/internal/diag"
	"safethunk/internal/token"
)

// Целые: 123, 1_000, 0x1F, 0b1010. Дробных чисел в языке интерфейсов нет,
// поэтому '.' после цифр не поглощается: `.param(1).x` лексится как ожидается.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			digit = isHex
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		}
		if b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !digit(lx.cursor.Peek()) {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digits after base prefix")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp.Start, sp.End)}
			}
		}
	}

	for !lx.cursor.EOF() && (digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
		lx.cursor.Bump()
	}

	// "12abc" — слитный хвост считаем ошибкой числа
	if b := lx.cursor.Peek(); !lx.cursor.EOF() && isIdentContinueByte(b) {
		for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid digit in integer literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp.Start, sp.End)}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp.Start, sp.End)}
}
