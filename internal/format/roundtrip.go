package format

import (
	"bytes"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
	"safethunk/internal/parser"
	"safethunk/internal/source"
)

// CheckRoundTrip formats the file, re-parses the output and formats it again,
// ensuring that the printer is a fixed point and the declarations survive.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	orig := parseOnce(sf, origBag)
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	formatted, err := FormatFile(orig, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSet()
	rebuilt := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	newBag := diag.NewBag(maxDiag)
	again := parseOnce(rebuilt, newBag)
	if newBag.HasErrors() {
		return false, "fmt-check: reparse failed"
	}
	if !sameDeclNames(orig, again) {
		return false, "fmt-check: declarations differ after round-trip"
	}
	second, err := FormatFile(again, opt)
	if err != nil || !bytes.Equal(formatted, second) {
		return false, "fmt-check: output is not stable"
	}
	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) *ast.File {
	opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: uint(bag.Cap())}
	return parser.ParseFile(sf, opts).File
}

func sameDeclNames(a, b *ast.File) bool {
	da, db := a.Decls(), b.Decls()
	if len(da) != len(db) {
		return false
	}
	for i := range da {
		if da[i].QualifiedName() != db[i].QualifiedName() || len(da[i].Params) != len(db[i].Params) {
			return false
		}
	}
	return true
}
