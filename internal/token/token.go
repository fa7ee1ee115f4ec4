package token

import (
	"safethunk/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer, string, bool or nil literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwFalse
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsNameLike reports whether the token can serve as a member or enum-case
// name after '.', where keywords such as `return` are allowed.
func (t Token) IsNameLike() bool {
	return t.Kind == Ident || t.IsKeyword()
}

// DocComment joins the text of leading `///` lines, without the slashes.
func (t Token) DocComment() []string {
	var out []string
	for _, tr := range t.Leading {
		if tr.Kind != TriviaDocLine {
			continue
		}
		line := tr.Text[3:]
		if len(line) > 0 && line[0] == ' ' {
			line = line[1:]
		}
		out = append(out, line)
	}
	return out
}
