package thunk_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/parser"
	"safethunk/internal/source"
	"safethunk/internal/thunk"
)

type fixture struct {
	fs   *source.FileSet
	decl *ast.FnDecl
	ann  thunk.Annotations
}

func parseInto(t *testing.T, fs *source.FileSet, src string) *ast.FnDecl {
	t.Helper()
	file := fs.Get(fs.AddVirtual("test.sfi", []byte(src)))
	bag := diag.NewBag(8)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("parse: %s", bag.Items()[0].Message)
	}
	decls := res.File.Decls()
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1", len(decls))
	}
	if decls[0].Attr("safethunk") == nil {
		t.Fatal("missing @safethunk")
	}
	return decls[0]
}

func parseDecl(t *testing.T, src string) *ast.FnDecl {
	t.Helper()
	return parseInto(t, source.NewFileSet(), src)
}

func load(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSet()
	decl := parseInto(t, fs, src)
	ann, err := thunk.FromAttr(decl.Attr("safethunk"))
	if err != nil {
		t.Fatalf("FromAttr: %v", err)
	}
	return fixture{fs: fs, decl: decl, ann: ann}
}

// generate returns the printed wrapper, or "" and the diagnostics.
func generate(t *testing.T, src string) (string, *diag.Bag) {
	t.Helper()
	f := load(t, src)
	bag := diag.NewBag(8)
	out := thunk.Synthesize(context.Background(), f.decl, f.ann, thunk.Options{Reporter: diag.BagReporter{Bag: bag}, Files: f.fs})
	if out == nil {
		return "", bag
	}
	return format.Decl(out, format.Options{}), bag
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "trivial count is elided",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"))
fn f(p: UnsafePointer<CInt>, n: CInt);`,
			want: `@inline_at_use
fn f(p: UnsafeBufferPointer<CInt>) {
    return f(p: p.baseAddress!, n: CInt(exactly: p.count)!);
}`,
		},
		{
			name: "complex count keeps parameter and checks",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n * 2"))
fn g(_ p: UnsafePointer<CInt>, _ n: CInt);`,
			want: `@inline_at_use
fn g(_ p: UnsafeBufferPointer<CInt>, _ n: CInt) {
    let _pCount = n * 2;
    if p.count < _pCount || _pCount < 0 {
        abort("bounds check failure when calling unsafe function");
    }
    return g(p.baseAddress!, n);
}`,
		},
		{
			name: "distinct counts are both elided",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"), countedBy(pointer: .param(2), count: "m"))
fn h(_ a: UnsafePointer<CInt>, _ b: UnsafePointer<CInt>, _ n: Int, _ m: Int);`,
			want: `@inline_at_use
fn h(_ a: UnsafeBufferPointer<CInt>, _ b: UnsafeBufferPointer<CInt>) {
    return h(a.baseAddress!, b.baseAddress!, a.count, b.count);
}`,
		},
		{
			name: "shared count keeps parameter and checks each view",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"), countedBy(pointer: .param(2), count: "n"))
fn h(_ a: UnsafePointer<CInt>, _ b: UnsafePointer<CInt>, _ n: Int);`,
			want: `@inline_at_use
fn h(_ a: UnsafeBufferPointer<CInt>, _ b: UnsafeBufferPointer<CInt>, _ n: Int) {
    let _aCount = n;
    if a.count < _aCount || _aCount < 0 {
        abort("bounds check failure when calling unsafe function");
    }
    let _bCount = n;
    if b.count < _bCount || _bCount < 0 {
        abort("bounds check failure when calling unsafe function");
    }
    return h(a.baseAddress!, b.baseAddress!, n);
}`,
		},
		{
			name: "nullable mutable span",
			src: `@safethunk(countedBy(pointer: .param(1), count: "n"), nonescaping(pointer: .param(1)))
fn fill(_ p: UnsafeMutablePointer<CInt>?, _ n: Int32) -> Int;`,
			want: `@inline_at_use
@lifetime(p: copy p)
fn fill(_ p: inout MutableSpan<CInt>?) -> Int {
    return if p == nil {
        fill(nil, Int32(exactly: p?.count ?? 0)!)
    } else {
        p!.withUnsafeMutableBufferPointer { _pPtr in
            return fill(_pPtr.baseAddress, Int32(exactly: p?.count ?? 0)!);
        }
    };
}`,
		},
		{
			name: "sized raw span",
			src: `@safethunk(sizedBy(pointer: .param(1), size: "size"), nonescaping(pointer: .param(1)))
pub fn write(_ buf: UnsafeRawPointer, _ size: Int);`,
			want: `@inline_at_use
pub fn write(_ buf: RawSpan) {
    return buf.withUnsafeBytes { _bufPtr in
        return write(_bufPtr.baseAddress!, buf.byteCount);
    };
}`,
		},
		{
			name: "opaque pointer buffer",
			src: `@safethunk(sizedBy(pointer: .param(1), size: "size"))
fn op(_ h: OpaquePointer, _ size: Int);`,
			want: `@inline_at_use
fn op(_ h: UnsafeRawBufferPointer) {
    return op(OpaquePointer(h.baseAddress!), h.count);
}`,
		},
		{
			name: "borrowed return span is disfavored",
			src: `@safethunk(countedBy(pointer: .return, count: "len"), lifetimeDependence(dependsOn: .param(1), pointer: .return, type: .borrow))
fn view(_ owner: Buffer, _ len: Int) -> UnsafePointer<CInt>;`,
			want: `@inline_at_use
@lifetime(borrow owner)
@disfavored
fn view(_ owner: Buffer, _ len: Int) -> Span<CInt> {
    return _overrideLifetime(Span<CInt>(_unsafeStart: view(owner, len), count: Int(len)), copying: ());
}`,
		},
		{
			name: "return wraps parameter call",
			src: `@safethunk(countedBy(pointer: .return, count: "n"), countedBy(pointer: .param(1), count: "n"))
fn both(_ p: UnsafePointer<CInt>, _ n: Int) -> UnsafePointer<CInt>;`,
			want: `@inline_at_use
fn both(_ p: UnsafeBufferPointer<CInt>, _ n: Int) -> UnsafeBufferPointer<CInt> {
    let _pCount = n;
    if p.count < _pCount || _pCount < 0 {
        abort("bounds check failure when calling unsafe function");
    }
    return UnsafeBufferPointer<CInt>(start: both(p.baseAddress!, n), count: Int(n));
}`,
		},
		{
			name: "nullable return",
			src: `@safethunk(countedBy(pointer: .return, count: "n"))
fn get(_ n: Int) -> UnsafePointer<CInt>?;`,
			want: `@inline_at_use
@disfavored
fn get(_ n: Int) -> UnsafeBufferPointer<CInt>? {
    return {
        let _resultValue = get(n);
        if _resultValue == nil {
            return nil;
        } else {
            return UnsafeBufferPointer<CInt>(start: _resultValue!, count: Int(n));
        }
    }();
}`,
		},
		{
			name: "const foreign span",
			src: `@safethunk(nonescaping(pointer: .param(1)), ["IntSpan": "std.span<const CInt>"])
fn sum(_ s: IntSpan) -> CInt;`,
			want: `@inline_at_use
fn sum(_ s: Span<CInt>) -> CInt {
    return sum(IntSpan(s));
}`,
		},
		{
			name: "mutable foreign span",
			src: `@safethunk(nonescaping(pointer: .param(1)), ["IntSpan": "std.__1.span<CInt>"])
fn zero(s: IntSpan);`,
			want: `@inline_at_use
@lifetime(s: copy s)
fn zero(s: inout MutableSpan<CInt>) {
    return s.withUnsafeMutableBufferPointer { _sPtr in
        return zero(s: IntSpan(_sPtr));
    };
}`,
		},
		{
			name: "foreign span return with dependency",
			src: `extern<Vec> {
    @safethunk(lifetimeDependence(dependsOn: .self, pointer: .return, type: .borrow), ["IntSpan": "std.span<const CInt>"])
    fn items() -> IntSpan;
}`,
			want: `@inline_at_use
@lifetime(borrow self)
@disfavored
fn items() -> Span<CInt> {
    return _overrideLifetime(Span(_unsafeCxxSpan: items()), copying: ());
}`,
		},
		{
			name: "foreign span next to elided count",
			src: `@safethunk(countedBy(pointer: .param(2), count: "n"), nonescaping(pointer: .param(1)), ["IntSpan": "std.span<const CInt>"])
fn mix(_ s: IntSpan, _ p: UnsafePointer<CInt>, _ n: Int);`,
			want: `@inline_at_use
fn mix(_ s: Span<CInt>, _ p: UnsafeBufferPointer<CInt>) {
    return mix(IntSpan(s), p.baseAddress!, p.count);
}`,
		},
		{
			name: "unnamed parameters get synthetic names",
			src: `@safethunk(countedBy(pointer: .param(1), count: "2"))
@available(macOS: 10)
fn pair(_: UnsafePointer<CInt>, _: Int);`,
			want: `@available(macOS: 10)
@inline_at_use
fn pair(_ _param1: UnsafeBufferPointer<CInt>, _ _param2: Int) {
    return pair(_param1.baseAddress!, _param2);
}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bag := generate(t, tt.src)
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %s", bag.Items()[0].Message)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("wrapper mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
