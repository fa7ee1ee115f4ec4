package thunk

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/parser"
	"safethunk/internal/source"
)

func parseStage(t *testing.T, src string) (*DeclContext, *parsed) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("stage.sfi", []byte(src)))
	bag := diag.NewBag(4)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse: %s", bag.Items()[0].Message)
	}
	decl := res.File.Decls()[0]
	ann, err := FromAttr(decl.Attr("safethunk"))
	if err != nil {
		t.Fatalf("FromAttr: %v", err)
	}
	dc := NewDeclContext(decl)
	p, err := parseAnnotations(dc, ann, fs)
	if err != nil {
		t.Fatalf("parseAnnotations: %v", err)
	}
	return dc, p
}

type siteSummary struct {
	Pointer     Position
	Nonescaping bool
	Deps        []Position
}

func summarize(infos []ParamInfo) []siteSummary {
	out := make([]siteSummary, 0, len(infos))
	for _, info := range infos {
		s := info.site()
		sum := siteSummary{Pointer: s.Pointer, Nonescaping: s.Nonescaping}
		for _, d := range s.Dependencies {
			sum.Deps = append(sum.Deps, d.DependsOn)
		}
		out = append(out, sum)
	}
	return out
}

func TestResolvePropagation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []siteSummary
	}{
		{
			name: "copy marks both ends",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"), countedBy(pointer: .param(2), count: "m"), lifetimeDependence(dependsOn: .param(1), pointer: .param(2), type: .copy))
fn cp(_ src: UnsafePointer<CInt>, _ dst: UnsafeMutablePointer<CInt>, _ n: Int, _ m: Int);`,
			want: []siteSummary{
				{Pointer: Param(1), Nonescaping: true},
				{Pointer: Param(2), Nonescaping: true, Deps: []Position{Param(1)}},
			},
		},
		{
			name: "borrow marks only the pointer",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"), countedBy(pointer: .param(2), count: "m"), lifetimeDependence(dependsOn: .param(1), pointer: .param(2), type: .borrow))
fn cp(_ src: UnsafePointer<CInt>, _ dst: UnsafeMutablePointer<CInt>, _ n: Int, _ m: Int);`,
			want: []siteSummary{
				{Pointer: Param(1)},
				{Pointer: Param(2), Nonescaping: true, Deps: []Position{Param(1)}},
			},
		},
		{
			name: "escaping foreign parameter is dropped",
			src: `@safethunk(countedBy(pointer: .param(2), count: "n"), ["S": "std.span<CInt>"])
fn f(_ s: S, _ p: UnsafePointer<CInt>, _ n: Int);`,
			want: []siteSummary{
				{Pointer: Param(2)},
			},
		},
		{
			name: "foreign return without dependencies is dropped",
			src: `@safethunk(["S": "std.span<CInt>"])
fn f(_ o: Owner) -> S;`,
		},
		{
			name: "foreign return with dependencies is kept",
			src: `@safethunk(lifetimeDependence(dependsOn: .param(1), pointer: .return, type: .borrow), ["S": "std.span<CInt>"])
fn f(_ o: Owner) -> S;`,
			want: []siteSummary{
				{Pointer: Return, Nonescaping: true, Deps: []Position{Param(1)}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := parseStage(t, tt.src)
			first := resolve(p.infos, p.nonescaping, p.lifetimes)
			if diff := cmp.Diff(tt.want, summarize(first), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("resolve mismatch (-want +got):\n%s", diff)
			}
			second := resolve(first, p.nonescaping, p.lifetimes)
			if diff := cmp.Diff(summarize(first), summarize(second), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("resolve is not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestOrderMovesReturnLast(t *testing.T) {
	mk := func(pos Position) ParamInfo { return &CountedBy{Site: Site{Pointer: pos}} }
	in := []ParamInfo{mk(Return), mk(Param(3)), mk(Param(1)), mk(Param(2))}
	got := order(in)
	want := []Position{Param(3), Param(1), Param(2), Return}
	var positions []Position
	for _, info := range got {
		positions = append(positions, info.site().Pointer)
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if in[0].site().Pointer != Return {
		t.Errorf("order modified its input")
	}
}

func TestSkipTrivialCount(t *testing.T) {
	counted := func(count ast.Expr, param int) ParamInfo {
		return &CountedBy{Count: count, CountParam: param}
	}
	n := func() ast.Expr { return ast.Id("n") }
	m := func() ast.Expr { return ast.Id("m") }
	tests := []struct {
		name  string
		infos []ParamInfo
		want  bool
	}{
		{name: "none", want: true},
		{name: "literal", infos: []ParamInfo{counted(ast.Int("4"), 0)}, want: true},
		{name: "two literals", infos: []ParamInfo{counted(ast.Int("4"), 0), counted(ast.Int("4"), 0)}, want: true},
		{name: "distinct parameters", infos: []ParamInfo{counted(n(), 3), counted(m(), 4)}, want: true},
		{name: "shared parameter", infos: []ParamInfo{counted(n(), 3), counted(n(), 3)}, want: false},
		{name: "arithmetic", infos: []ParamInfo{counted(ast.Bin(ast.OpMul, n(), ast.Int("2")), 0)}, want: false},
		{name: "member", infos: []ParamInfo{counted(ast.Dot(n(), "count"), 0)}, want: false},
		{name: "foreign spans do not count", infos: []ParamInfo{&ForeignSpan{}, counted(n(), 2), &ForeignSpan{}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := skipTrivialCount(tt.infos); got != tt.want {
				t.Errorf("skipTrivialCount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountParamResolution(t *testing.T) {
	_, p := parseStage(t, `@safethunk(countedBy(pointer: .param(1), count: "n"), sizedBy(pointer: .param(2), size: "n * 4"))
fn f(_ a: UnsafePointer<CInt>, _ b: UnsafeRawPointer, _ n: Int);`)
	if len(p.infos) != 2 {
		t.Fatalf("got %d records, want 2", len(p.infos))
	}
	a := p.infos[0].(*CountedBy)
	b := p.infos[1].(*CountedBy)
	if a.CountParam != 3 || a.SizedBy {
		t.Errorf("countedBy: CountParam=%d SizedBy=%v, want 3 false", a.CountParam, a.SizedBy)
	}
	if b.CountParam != 0 || !b.SizedBy {
		t.Errorf("sizedBy: CountParam=%d SizedBy=%v, want 0 true", b.CountParam, b.SizedBy)
	}
}

func TestPositionString(t *testing.T) {
	for pos, want := range map[Position]string{
		Param(2): ".param(2)",
		Return:   ".return",
		Self:     ".self",
	} {
		if got := pos.String(); got != want {
			t.Errorf("%#v.String() = %q, want %q", pos, got, want)
		}
	}
}
