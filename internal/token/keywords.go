package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"if":     KwIf,
	"else":   KwElse,
	"return": KwReturn,
	"extern": KwExtern,
	"pub":    KwPub,
	"inout":  KwInout,
	"const":  KwConst,
	"nil":    KwNil,
	"in":     KwIn,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsKeywordText reports whether s would lex as a keyword. The printer uses it
// to decide whether a member name such as `.return` needs no escaping.
func IsKeywordText(s string) bool {
	_, ok := keywords[s]
	return ok
}
