package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	StringLit

	KwFn     // fn
	KwLet    // let
	KwIf     // if
	KwElse   // else
	KwReturn // return
	KwExtern // extern
	KwPub    // pub
	KwInout  // inout
	KwConst  // const
	KwNil    // nil
	KwIn     // in
	KwTrue   // true
	KwFalse  // false

	Plus             // +
	Minus            // -
	Star             // *
	Slash            // /
	Percent          // %
	Assign           // =
	EqEq             // ==
	Bang             // !
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Gt               // >
	GtEq             // >=
	AndAnd           // &&
	OrOr             // ||
	Amp              // &
	Question         // ?
	QuestionQuestion // ??
	QuestionDot      // ?.
	Colon            // :
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	Arrow            // ->
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]
	At               // @
	Underscore       // _
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	StringLit:        "StringLit",
	KwFn:             "fn",
	KwLet:            "let",
	KwIf:             "if",
	KwElse:           "else",
	KwReturn:         "return",
	KwExtern:         "extern",
	KwPub:            "pub",
	KwInout:          "inout",
	KwConst:          "const",
	KwNil:            "nil",
	KwIn:             "in",
	KwTrue:           "true",
	KwFalse:          "false",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Percent:          "%",
	Assign:           "=",
	EqEq:             "==",
	Bang:             "!",
	BangEq:           "!=",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	AndAnd:           "&&",
	OrOr:             "||",
	Amp:              "&",
	Question:         "?",
	QuestionQuestion: "??",
	QuestionDot:      "?.",
	Colon:            ":",
	Semicolon:        ";",
	Comma:            ",",
	Dot:              ".",
	Arrow:            "->",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	At:               "@",
	Underscore:       "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
