package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"safethunk/internal/diag"
	"safethunk/internal/lexer"
	"safethunk/internal/source"
	"safethunk/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sfi", []byte(input)))
	bag := diag.NewBag(16)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, bag
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexDeclaration(t *testing.T) {
	toks, bag := lexAll(t, `@safethunk(countedBy(pointer: .param(1), count: "n"))
fn fill(_ p: UnsafeMutablePointer<CInt>?, n: CInt) -> Int;`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.At, token.Ident, token.LParen, token.Ident, token.LParen,
		token.Ident, token.Colon, token.Dot, token.Ident, token.LParen, token.IntLit, token.RParen, token.Comma,
		token.Ident, token.Colon, token.StringLit, token.RParen, token.RParen,
		token.KwFn, token.Ident, token.LParen, token.Underscore, token.Ident, token.Colon,
		token.Ident, token.Lt, token.Ident, token.Gt, token.Question, token.Comma,
		token.Ident, token.Colon, token.Ident, token.RParen, token.Arrow, token.Ident, token.Semicolon,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexOperators(t *testing.T) {
	toks, _ := lexAll(t, "a?.count ?? 0 < b || !c && d != e >= f <= g == h")
	want := []token.Kind{
		token.Ident, token.QuestionDot, token.Ident, token.QuestionQuestion, token.IntLit,
		token.Lt, token.Ident, token.OrOr, token.Bang, token.Ident, token.AndAnd, token.Ident,
		token.BangEq, token.Ident, token.GtEq, token.Ident, token.LtEq, token.Ident, token.EqEq, token.Ident,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Fatalf("token kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexKeywordsAfterDot(t *testing.T) {
	toks, _ := lexAll(t, ".return .self")
	if toks[1].Kind != token.KwReturn || !toks[1].IsNameLike() {
		t.Errorf("`.return` member = %v", toks[1].Kind)
	}
	if toks[3].Kind != token.Ident || toks[3].Text != "self" {
		t.Errorf("`.self` member = %v %q", toks[3].Kind, toks[3].Text)
	}
}

func TestLexIntegers(t *testing.T) {
	toks, bag := lexAll(t, "0 42 1_000 0xFF 0b101 12abc")
	want := []string{"0", "42", "1_000", "0xFF", "0b101"}
	for i, text := range want {
		if toks[i].Kind != token.IntLit || toks[i].Text != text {
			t.Errorf("token %d = %v %q, want IntLit %q", i, toks[i].Kind, toks[i].Text, text)
		}
	}
	if toks[5].Kind != token.Invalid {
		t.Errorf("12abc must be invalid, got %v", toks[5].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
		t.Errorf("expected one LexBadNumber, got %v", bag.Items())
	}
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  token.Kind
		code  diag.Code
	}{
		{"plain", `"n * 2"`, token.StringLit, diag.UnknownCode},
		{"escapes", `"a\"b\\c\n\u{1F600}"`, token.StringLit, diag.UnknownCode},
		{"bad escape", `"\q"`, token.StringLit, diag.LexBadEscape},
		{"newline", "\"abc\ndef\"", token.Invalid, diag.LexUnterminatedString},
		{"eof", `"abc`, token.Invalid, diag.LexUnterminatedString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.input)
			if toks[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if tt.code == diag.UnknownCode {
				if bag.Len() != 0 {
					t.Errorf("unexpected diagnostics %v", bag.Items())
				}
				return
			}
			if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code.ID(), bag.Items())
			}
		})
	}
}

func TestLexTriviaAndDocComments(t *testing.T) {
	toks, bag := lexAll(t, "// plain\n/// Fills.\n/* block /* nested */ */\nfn")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	fn := toks[0]
	if fn.Kind != token.KwFn {
		t.Fatalf("first token = %v", fn.Kind)
	}
	var got []token.TriviaKind
	for _, tr := range fn.Leading {
		got = append(got, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline,
		token.TriviaDocLine, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaNewline,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trivia mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fills."}, fn.DocComment()); diff != "" {
		t.Errorf("doc comment mismatch (-want +got):\n%s", diff)
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, bag := lexAll(t, "/* never closed")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("got %v", bag.Items())
	}
}

func TestLexUnknownChar(t *testing.T) {
	toks, bag := lexAll(t, "a # b")
	if toks[1].Kind != token.Invalid || toks[1].Text != "#" {
		t.Errorf("unknown char token = %v %q", toks[1].Kind, toks[1].Text)
	}
	if toks[2].Kind != token.Ident {
		t.Errorf("lexing must continue after unknown char")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Errorf("got %v", bag.Items())
	}
}

func TestIdentNFCNormalization(t *testing.T) {
	// "e" + combining acute accent
	toks, _ := lexAll(t, "cafe\u0301")
	if toks[0].Kind != token.Ident || toks[0].Text != "caf\u00e9" {
		t.Fatalf("ident = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[0].Span.Len() != 6 {
		t.Errorf("span must cover source bytes, got %d", toks[0].Span.Len())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("p.sfi", []byte("a b")))
	lx := lexer.New(file, lexer.Options{})
	if lx.Peek().Text != "a" || lx.Peek().Text != "a" {
		t.Fatal("Peek must be idempotent")
	}
	if lx.Next().Text != "a" || lx.Next().Text != "b" || lx.Next().Kind != token.EOF {
		t.Fatal("Next after Peek returned wrong sequence")
	}
}

func TestNewInRange(t *testing.T) {
	fs := source.NewFileSet()
	content := `count: "len * 2"`
	file := fs.Get(fs.AddVirtual("r.sfi", []byte(content)))
	start := uint32(strings.Index(content, "len"))
	lx := lexer.NewInRange(file, source.Span{File: file.ID, Start: start, End: start + 7}, lexer.Options{})

	first := lx.Next()
	if first.Text != "len" || first.Span.Start != start {
		t.Fatalf("first token = %q at %d", first.Text, first.Span.Start)
	}
	if lx.Next().Kind != token.Star || lx.Next().Kind != token.IntLit || lx.Next().Kind != token.EOF {
		t.Fatal("range lexing must stop before the closing quote")
	}
}

func TestTokenTooLong(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("long.sfi", []byte(strings.Repeat("a", 4097)+" b")))
	bag := diag.NewBag(4)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", bag.Items())
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", next.Kind)
	}
}
