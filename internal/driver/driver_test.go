package driver_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"safethunk/internal/diag"
	"safethunk/internal/driver"
	"safethunk/internal/pipeline"
	"safethunk/internal/project"
)

const counted = `@safethunk(countedBy(pointer: .param(1), count: "n"))
fn f(p: UnsafePointer<CInt>, n: CInt);
`

const countedWant = `@inline_at_use
fn f(p: UnsafeBufferPointer<CInt>) {
    return f(p: p.baseAddress!, n: CInt(exactly: p.count)!);
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func run(t *testing.T, paths []string, opts driver.Options) *driver.Result {
	t.Helper()
	if opts.Config.Generate.Suffix == "" {
		opts.Config = project.Default()
	}
	res, err := driver.Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestListInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.sfi", "")
	writeFile(t, dir, "a.sfi", "")
	writeFile(t, dir, "a.safe.sfi", "")
	writeFile(t, dir, "sub/c.sfi", "")
	writeFile(t, dir, ".hidden/d.sfi", "")
	writeFile(t, dir, "notes.txt", "")

	got, err := driver.ListInputs(dir, project.DefaultSuffix)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.sfi"),
		filepath.Join(dir, "b.sfi"),
		filepath.Join(dir, "sub", "c.sfi"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("inputs mismatch (-want +got):\n%s", diff)
	}

	single, err := driver.ListInputs(filepath.Join(dir, "a.sfi"), project.DefaultSuffix)
	if err != nil || len(single) != 1 {
		t.Fatalf("single file: %v %v", single, err)
	}

	empty := t.TempDir()
	if _, err := driver.ListInputs(empty, project.DefaultSuffix); !errors.Is(err, driver.ErrNoInputs) {
		t.Fatalf("err = %v, want ErrNoInputs", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, outDir, want string
	}{
		{"lib/buf.sfi", "", filepath.Join("lib", "buf.safe.sfi")},
		{"lib/buf.sfi", "gen", filepath.Join("gen", "buf.safe.sfi")},
		{"buf", "", "buf.safe.sfi"},
	}
	for _, tt := range tests {
		if got := driver.OutputPath(tt.input, tt.outDir, project.DefaultSuffix); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.outDir, got, tt.want)
		}
	}
}

func TestRunWritesNextToInput(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sfi", counted+"\nfn plain(x: Int);\n")
	b := writeFile(t, dir, "b.sfi", "fn plain(x: Int);\n")

	var rec pipeline.Recorder
	res := run(t, []string{a, b}, driver.Options{Output: driver.Output{Mode: driver.OutputFiles}, Progress: &rec})
	if res.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", codes(res.Diagnostics()))
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.safe.sfi"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(countedWant, string(got)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.safe.sfi")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("b.safe.sfi should not exist, stat err = %v", err)
	}
	if res.Files[0].Written != filepath.Join(dir, "a.safe.sfi") || res.Files[1].Written != "" {
		t.Errorf("written = %q, %q", res.Files[0].Written, res.Files[1].Written)
	}
	annotated, generated, cached := res.Counts()
	if annotated != 1 || generated != 1 || cached != 0 {
		t.Errorf("counts = %d/%d/%d", annotated, generated, cached)
	}
	if !rec.Timings().Has(pipeline.StageParse) {
		t.Error("no parse timing recorded")
	}
}

func TestRunOutDirAndExactFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "in/a.sfi", counted)

	cfg := project.Default()
	cfg.Generate.OutDir = filepath.Join(dir, "gen")
	run(t, []string{a}, driver.Options{Config: cfg, Output: driver.Output{Mode: driver.OutputFiles}})
	if _, err := os.Stat(filepath.Join(dir, "gen", "a.safe.sfi")); err != nil {
		t.Errorf("out_dir output: %v", err)
	}

	exact := filepath.Join(dir, "exact.sfi")
	run(t, []string{a}, driver.Options{Output: driver.Output{Mode: driver.OutputFiles, File: exact}})
	got, err := os.ReadFile(exact)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != countedWant {
		t.Errorf("exact output = %q", got)
	}

	b := writeFile(t, dir, "in/b.sfi", counted)
	if _, err := driver.Run(context.Background(), []string{a, b}, driver.Options{
		Config: project.Default(),
		Output: driver.Output{Mode: driver.OutputFiles, File: exact},
	}); err == nil {
		t.Error("an exact output file with two inputs should fail")
	}
}

func manyDecls(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn f%d(p: UnsafePointer<CInt>, n: CInt);\n", i)
		if i%3 == 0 {
			fmt.Fprintf(&sb, "extern<Buffer> {\n@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn m%d(p: UnsafePointer<CInt>, n: CInt);\n}\n", i)
		}
	}
	return sb.String()
}

func TestRunKeepsDeclarationOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sfi", manyDecls(16))
	b := writeFile(t, dir, "b.sfi", "@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn g(p: UnsafePointer<CInt>, n: CInt);\n")

	output := func(jobs int) string {
		var buf bytes.Buffer
		res := run(t, []string{a, b}, driver.Options{Jobs: jobs, Output: driver.Output{Mode: driver.OutputStdout, Stdout: &buf}})
		if res.HasErrors() {
			t.Fatalf("jobs=%d: unexpected diagnostics: %v", jobs, codes(res.Diagnostics()))
		}
		return buf.String()
	}

	serial := output(1)
	for range 3 {
		if diff := cmp.Diff(serial, output(8)); diff != "" {
			t.Fatalf("parallel output differs (-serial +parallel):\n%s", diff)
		}
	}

	// свободные функции по порядку, методы собраны в один extern-блок
	last := -1
	for i := range 16 {
		at := strings.Index(serial, fmt.Sprintf("fn f%d(", i))
		if at <= last {
			t.Fatalf("f%d out of order", i)
		}
		last = at
	}
	if n := strings.Count(serial, "extern<Buffer> {"); n != 1 {
		t.Errorf("got %d extern blocks, want 1", n)
	}
	if !strings.Contains(serial, "// "+a) && !strings.Contains(serial, "// a.sfi") {
		t.Errorf("missing source header for a.sfi:\n%s", serial)
	}
	if strings.Index(serial, "fn g(") < strings.Index(serial, "fn f15(") {
		t.Error("b.sfi printed before a.sfi")
	}
}

func TestRunDiagnosticsInDeclarationOrder(t *testing.T) {
	dir := t.TempDir()
	src := "@safethunk(countedBy(pointer: .param(3), count: \"n\"))\nfn bad1(_ p: UnsafePointer<CInt>, _ n: Int);\n" +
		counted +
		"@safethunk(endedBy(start: 1, end: 2))\nfn bad2(_ p: UnsafePointer<CInt>, _ e: UnsafePointer<CInt>);\n"
	a := writeFile(t, dir, "a.sfi", src)

	for _, jobs := range []int{1, 4} {
		res := run(t, []string{a}, driver.Options{Jobs: jobs, Output: driver.Output{Mode: driver.OutputFiles}})
		want := []diag.Code{diag.ThkIndexOutOfRange, diag.FutEndedByNotSupported}
		if diff := cmp.Diff(want, codes(res.Diagnostics())); diff != "" {
			t.Errorf("jobs=%d: codes mismatch (-want +got):\n%s", jobs, diff)
		}
		if len(res.Files[0].Decls) != 1 {
			t.Errorf("jobs=%d: %d wrappers, want 1", jobs, len(res.Files[0].Decls))
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "a.safe.sfi")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("a file with errors must not be written, stat err = %v", err)
	}
}

func TestRunReportsLoadAndParseErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.sfi", "fn (;\n")
	missing := filepath.Join(dir, "missing.sfi")

	res := run(t, []string{missing, broken}, driver.Options{})
	got := codes(res.Files[0].Bag)
	if len(got) != 1 || got[0] != diag.IOLoadFileError {
		t.Errorf("missing file codes = %v", got)
	}
	if !res.Files[1].Bag.HasErrors() || res.Files[1].Parsed {
		t.Errorf("broken file: parsed=%v codes=%v", res.Files[1].Parsed, codes(res.Files[1].Bag))
	}
}

func TestRunSidecarAnnotations(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sfi", "fn f(p: UnsafePointer<CInt>, n: CInt);\n")

	cfg := project.Default()
	cfg.Path = filepath.Join(dir, project.ConfigName)
	cfg.Annotations = []project.Sidecar{
		{Decl: "f", Infos: []string{`countedBy(pointer: .param(1), count: "n")`}},
		{Decl: "missing", Infos: []string{`nonescaping(pointer: .param(1))`}},
		{Decl: "f", Infos: []string{`countedBy(pointer:`}},
	}

	var buf bytes.Buffer
	res := run(t, []string{a}, driver.Options{Config: cfg, Output: driver.Output{Mode: driver.OutputStdout, Stdout: &buf}})
	if diff := cmp.Diff(countedWant, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	var sawInvalid, sawUnknown bool
	for _, d := range res.Bag.Items() {
		switch d.Code {
		case diag.ProjSidecarInvalid:
			sawInvalid = true
		case diag.ThkUnknownDeclaration:
			sawUnknown = true
			if d.Severity != diag.SevWarning {
				t.Errorf("unknown declaration severity = %v, want warning", d.Severity)
			}
			if path := res.FileSet.Get(d.Primary.File).Path; !strings.Contains(path, "#annotations[1]") {
				t.Errorf("unknown declaration reported in %q", path)
			}
		}
	}
	if !sawInvalid || !sawUnknown {
		t.Errorf("run diagnostics = %v", codes(res.Bag))
	}
}

func TestRunSidecarMergesWithAttribute(t *testing.T) {
	dir := t.TempDir()
	src := "@safethunk(countedBy(pointer: .param(1), count: \"n\"))\nfn f(p: UnsafePointer<CInt>, n: CInt, q: UnsafePointer<CInt>);\n"
	a := writeFile(t, dir, "a.sfi", src)

	cfg := project.Default()
	cfg.Annotations = []project.Sidecar{
		{Decl: "f", Infos: []string{`countedBy(pointer: .param(1), count: "n")`}},
	}
	res := run(t, []string{a}, driver.Options{Config: cfg})
	got := codes(res.Diagnostics())
	if len(got) != 1 || got[0] != diag.ThkDuplicateAnnotation {
		t.Errorf("codes = %v, want a duplicate annotation", got)
	}
}
