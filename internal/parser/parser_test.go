package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/parser"
	"safethunk/internal/source"
)

func parseSource(t *testing.T, input string) (*source.FileSet, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sfi", []byte(input)))
	bag := diag.NewBag(32)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 32})
	return fs, res.File, bag
}

func mustParse(t *testing.T, input string) *ast.File {
	t.Helper()
	_, file, bag := parseSource(t, input)
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Errorf("%s: %s", d.Code, d.Message)
		}
		t.FailNow()
	}
	return file
}

func TestParseAnnotatedDecl(t *testing.T) {
	file := mustParse(t, `/// Fills the buffer.
@safethunk(countedBy(pointer: .param(1), count: "n"))
pub fn fill(_ p: UnsafeMutablePointer<CInt>?, n: CInt) -> Int;
`)
	decls := file.Decls()
	if len(decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(decls))
	}
	d := decls[0]
	if d.Name != "fill" || !d.Pub || d.HasBody {
		t.Errorf("decl header = %q pub=%v body=%v", d.Name, d.Pub, d.HasBody)
	}
	if diff := cmp.Diff([]string{"Fills the buffer."}, d.Doc); diff != "" {
		t.Errorf("doc mismatch (-want +got):\n%s", diff)
	}
	if len(d.Params) != 2 {
		t.Fatalf("got %d params", len(d.Params))
	}
	if got := d.Params[0].Type.String(); got != "UnsafeMutablePointer<CInt>?" {
		t.Errorf("param 1 type = %q", got)
	}
	if d.Params[0].Label() != "" || d.Params[0].InternalName(1) != "p" {
		t.Errorf("param 1 label=%q name=%q", d.Params[0].Label(), d.Params[0].InternalName(1))
	}
	if d.Params[1].Label() != "n" || d.Params[1].InternalName(2) != "n" {
		t.Errorf("param 2 label=%q name=%q", d.Params[1].Label(), d.Params[1].InternalName(2))
	}
	if d.Result.String() != "Int" {
		t.Errorf("result = %q", d.Result)
	}

	attr := d.Attr("safethunk")
	if attr == nil || len(attr.Args) != 1 {
		t.Fatalf("safethunk attr = %+v", attr)
	}
	if got := format.Expr(attr.Args[0].Value); got != `countedBy(pointer: .param(1), count: "n")` {
		t.Errorf("annotation = %s", got)
	}
}

func TestParseExternBlock(t *testing.T) {
	file := mustParse(t, `
extern<Buffer> {
    fn read(into dst: UnsafeMutableRawPointer, size: Int) -> Int;
    fn reset() { let x = 1; { } }
}
fn free(_: OpaquePointer);
`)
	if len(file.Items) != 2 {
		t.Fatalf("got %d items", len(file.Items))
	}
	block, ok := file.Items[0].(*ast.ExternBlock)
	if !ok {
		t.Fatalf("item 0 = %T", file.Items[0])
	}
	if block.Target.String() != "Buffer" || len(block.Decls) != 2 {
		t.Fatalf("extern<%s> with %d decls", block.Target, len(block.Decls))
	}
	read := block.Decls[0]
	if read.QualifiedName() != "Buffer.read" || read.Receiver == nil {
		t.Errorf("method = %q", read.QualifiedName())
	}
	if read.Params[0].Label() != "into" || read.Params[0].InternalName(1) != "dst" {
		t.Errorf("labels = %q/%q", read.Params[0].Label(), read.Params[0].InternalName(1))
	}
	if !block.Decls[1].HasBody {
		t.Errorf("reset body not recorded")
	}
	free := file.Decls()[2]
	if free.Params[0].InternalName(1) != "_param1" {
		t.Errorf("unnamed param = %q", free.Params[0].InternalName(1))
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CInt", "CInt"},
		{"std.span<const CInt>", "std.span<const CInt>"},
		{"std.__1.span<CInt, 18446744073709551615>", "std.__1.span<CInt, 18446744073709551615>"},
		{"inout MutableSpan<CInt>", "inout MutableSpan<CInt>"},
		{"UnsafePointer<UnsafePointer<CChar>?>??", "UnsafePointer<UnsafePointer<CChar>?>??"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ty, err := parser.ParseType(tt.in)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if got := ty.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, in := range []string{"", "std.span<CInt", "A B", "Span<>"} {
		if _, err := parser.ParseType(in); err == nil {
			t.Errorf("ParseType(%q) succeeded", in)
		}
	}
}

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a + b * c", "a + b * c"},
		{"(a + b) * c", "(a + b) * c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a ?? b ?? c", "a ?? b ?? c"},
		{"p?.count ?? 0 < n || n < 0", "p?.count ?? 0 < n || n < 0"},
		{"-x.count", "-x.count"},
		{"!(a && b)", "!(a && b)"},
		{"CInt(exactly: p.count)!", "CInt(exactly: p.count)!"},
		{`["IntSpan": "std.span<const CInt>"]`, `["IntSpan": "std.span<const CInt>"]`},
		{"[:]", "[:]"},
		{"f(())", "f(())"},
		{".return", ".return"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.in)
			if err != nil {
				t.Fatalf("ParseExpr: %v", err)
			}
			if got := format.Expr(e); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExprStructure(t *testing.T) {
	e, err := parser.ParseExpr("a - b - c")
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := e.(*ast.Binary)
	if !ok || outer.Op != ast.OpSub {
		t.Fatalf("got %T", e)
	}
	if inner, ok := outer.X.(*ast.Binary); !ok || inner.Op != ast.OpSub {
		t.Errorf("subtraction is not left-associative: %s", format.Expr(e))
	}

	e, err = parser.ParseExpr("a ?? b ?? c")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.(*ast.Binary).Y.(*ast.Binary); !ok {
		t.Errorf("?? is not right-associative")
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, in := range []string{"", "a +", "n n", "f(a", `"\q"`} {
		if _, err := parser.ParseExpr(in); err == nil {
			t.Errorf("ParseExpr(%q) succeeded", in)
		}
	}
}

func TestParseLifetimeAttr(t *testing.T) {
	file := mustParse(t, "@lifetime(borrow p, q: copy q)\nfn f(p: Span<CInt>, q: inout MutableSpan<CInt>) -> Span<CInt>;")
	attr := file.Decls()[0].Attr("lifetime")
	if attr == nil || len(attr.Args) != 2 {
		t.Fatalf("attr = %+v", attr)
	}
	lt, ok := attr.Args[0].Value.(*ast.Lifetime)
	if !ok || lt.Kind != "borrow" || lt.Target != "p" {
		t.Errorf("arg 0 = %#v", attr.Args[0].Value)
	}
	if attr.Args[1].Label != "q" {
		t.Errorf("arg 1 label = %q", attr.Args[1].Label)
	}
	if _, ok := attr.Args[1].Value.(*ast.Lifetime); !ok {
		t.Errorf("arg 1 = %T", attr.Args[1].Value)
	}
}

func TestParseExprInRangeSpans(t *testing.T) {
	input := `@safethunk(countedBy(pointer: .param(1), count: "len * 2"))`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sfi", []byte(input)))
	start := strings.Index(input, `"len`)
	lit := source.Span{File: file.ID, Start: uint32(start), End: uint32(start + len(`"len * 2"`))}

	bag := diag.NewBag(4)
	e, ok := parser.ParseExprInRange(file, lit.Shrink(1), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	bin := e.(*ast.Binary)
	if got := fs.Text(bin.X.Pos()); got != "len" {
		t.Errorf("left operand text = %q", got)
	}
	if got := fs.Text(e.Pos()); got != "len * 2" {
		t.Errorf("expr text = %q", got)
	}
}

func TestParseExprInRangeTrailing(t *testing.T) {
	input := `"n m"`
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sfi", []byte(input)))
	span := source.Span{File: file.ID, Start: 1, End: 4}
	bag := diag.NewBag(4)
	if _, ok := parser.ParseExprInRange(file, span, parser.Options{Reporter: diag.BagReporter{Bag: bag}}); ok {
		t.Fatal("expected failure")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynTrailingInput {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	if got := fs.Text(bag.Items()[0].Primary); got != "m" {
		t.Errorf("primary = %q", got)
	}
}

func TestMissingSemicolonFix(t *testing.T) {
	fs, file, bag := parseSource(t, "fn a() -> Int\nfn b();")
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynExpectSemicolon {
		t.Fatalf("code = %s", d.Code)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != ";" {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 || start.Col != 14 {
		t.Errorf("fix position = %d:%d", start.Line, start.Col)
	}
	// восстановление: вторая декларация всё равно разобрана
	if len(file.Decls()) != 1 || file.Decls()[0].Name != "b" {
		t.Errorf("decls after recovery = %d", len(file.Decls()))
	}
}

func TestRecoveryAndLimits(t *testing.T) {
	input := "let x;\nfn ok();\nextern<T> { let y; fn m(); }\nfn (;\n"
	_, file, bag := parseSource(t, input)
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.SynUnexpectedTopLevel, diag.SynIllegalItemInExtern, diag.SynExpectIdentifier}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, d := range file.Decls() {
		names = append(names, d.QualifiedName())
	}
	if diff := cmp.Diff([]string{"ok", "T.m"}, names); diff != "" {
		t.Errorf("decls mismatch (-want +got):\n%s", diff)
	}

	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("x.sfi", []byte(input)))
	limited := diag.NewBag(0)
	res := parser.ParseFile(src, parser.Options{Reporter: diag.BagReporter{Bag: limited}, MaxErrors: 1})
	if limited.Len() != 1 || res.Errors != 1 {
		t.Errorf("MaxErrors=1: %d diagnostics, %d errors", limited.Len(), res.Errors)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`"n"`, "n", true},
		{`"a\"b"`, `a"b`, true},
		{`"\u{e9}"`, "é", true},
		{`"tab\t"`, "tab\t", true},
		{`"\x"`, "", false},
		{`"\u{zz}"`, "", false},
		{`n`, "", false},
	}
	for _, tt := range tests {
		got, err := parser.Unquote(tt.raw)
		if (err == nil) != tt.ok {
			t.Errorf("Unquote(%s) err = %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.raw, got, tt.want)
		}
		if tt.ok {
			back, err := parser.Unquote(parser.Quote(got))
			if err != nil || back != got {
				t.Errorf("Quote round trip of %q = %q, %v", got, back, err)
			}
		}
	}
}
