package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		ok   bool
	}{
		{"fn", KwFn, true},
		{"inout", KwInout, true},
		{"return", KwReturn, true},
		{"Fn", Invalid, false},
		{"self", Invalid, false},
		{"UnsafePointer", Invalid, false},
	}
	for _, tt := range tests {
		k, ok := LookupKeyword(tt.text)
		if ok != tt.ok || (ok && k != tt.kind) {
			t.Errorf("LookupKeyword(%q) = %v,%v want %v,%v", tt.text, k, ok, tt.kind, tt.ok)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := QuestionQuestion.String(); got != "??" {
		t.Errorf("QuestionQuestion.String() = %q", got)
	}
	if got := KwExtern.String(); got != "extern" {
		t.Errorf("KwExtern.String() = %q", got)
	}
	if got := Kind(250).String(); got != "Kind(?)" {
		t.Errorf("out of range kind = %q", got)
	}
}

func TestKeywordRangeIsContiguous(t *testing.T) {
	for text, k := range keywords {
		tok := Token{Kind: k, Text: text}
		if !tok.IsKeyword() || !tok.IsNameLike() {
			t.Errorf("%q is not classified as keyword", text)
		}
	}
	if (Token{Kind: Ident}).IsKeyword() {
		t.Error("Ident classified as keyword")
	}
}

func TestDocComment(t *testing.T) {
	tok := Token{Kind: KwFn, Leading: []Trivia{
		{Kind: TriviaLineComment, Text: "// plain"},
		{Kind: TriviaDocLine, Text: "/// Fills the buffer."},
		{Kind: TriviaNewline, Text: "\n"},
		{Kind: TriviaDocLine, Text: "///"},
	}}
	if diff := cmp.Diff([]string{"Fills the buffer.", ""}, tok.DocComment()); diff != "" {
		t.Errorf("DocComment mismatch (-want +got):\n%s", diff)
	}
}
