package fuzztests

import (
	"context"
	"testing"
	"time"

	"safethunk/internal/diag"
	"safethunk/internal/format"
	"safethunk/internal/parser"
	"safethunk/internal/source"
	"safethunk/internal/testkit"
	"safethunk/internal/thunk"
)

// parseTimeout is the maximum time allowed for one input. Longer means a
// recovery loop that does not advance.
const parseTimeout = 5 * time.Second

// FuzzParserSpans parses arbitrary input and, when it parses cleanly, checks
// the span invariants of the tree.
func FuzzParserSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sfi", input))
		bag := diag.NewBag(128)
		res := parser.ParseFile(file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if res.Errors > 0 {
			return
		}
		if err := testkit.CheckSpanInvariants(res.File, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzSynthesizeNoHang runs the whole generation of every annotated
// declaration with a timeout. Failures are fine; panics and hangs are not.
func FuzzSynthesizeNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("@safethunk(countedBy(pointer: .param(1), count: \"n\"\nfn f(_ p: UnsafePointer<CInt>, _ n: Int);"))
	f.Add([]byte("@safethunk(countedBy(pointer: .param(99999999999999999999), count: \"n\"))\nfn f();"))
	f.Add([]byte("extern<A> { extern<B> { fn f(); } }"))
	f.Add([]byte("@safethunk(typeMappings: [\"A\": \"B\", \"A\": \"C\"])\nfn f(_ a: A);"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)

			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.sfi", input))
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}
			res := parser.ParseFile(file, parser.Options{Reporter: reporter, MaxErrors: 128})
			if res.Errors > 0 {
				return
			}
			for _, decl := range res.File.Decls() {
				attr := decl.Attr("safethunk")
				if attr == nil {
					continue
				}
				ann, err := thunk.FromAttr(attr)
				if err != nil {
					continue
				}
				out := thunk.Synthesize(ctx, decl, ann, thunk.Options{Reporter: reporter, Files: fs})
				if out != nil {
					_ = format.Decl(out, format.Options{})
				}
			}
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("hang detected: generation took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
