package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"safethunk/internal/diag"
	"safethunk/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn f(p: UnsafePointer<CInt>, n: \"unterminated\n")
	fileID := fs.AddVirtual("/home/user/project/src/api.sfi", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 32, End: 45},
		"unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/api.sfi:1:33"},
		{"Relative path", PathModeRelative, "src/api.sfi:1:33"},
		{"Basename only", PathModeBasename, "api.sfi:1:33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			for _, want := range []string{tt.contains, "ERROR", "LEX1002", "unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, output)
				}
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "api.sfi", "api.sfi:1:"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/api.sfi", " api.sfi:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("fn f() -> X;\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 3, End: 4}, "test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			if output := " " + buf.String(); !strings.Contains(output, tt.expected) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyCaretUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("api.sfi", []byte("fn fill(p: UnsafePointer<CInt>, n: CInt);\n"))

	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.ThkPointerType, source.Span{File: fileID, Start: 11, End: 30}, "bad pointer"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, source and caret lines, got:\n%s", buf.String())
	}
	if lines[1] != "1 | fn fill(p: UnsafePointer<CInt>, n: CInt);" {
		t.Errorf("source line = %q", lines[1])
	}
	wantCaret := "  | " + strings.Repeat(" ", 11) + "^" + strings.Repeat("~", 18)
	if lines[2] != wantCaret {
		t.Errorf("caret line = %q, want %q", lines[2], wantCaret)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn f(p: UnsafePointer<CInt>)\n")
	fileID := fs.AddVirtual("api.sfi", content)

	insert := source.Span{File: fileID, Start: 28, End: 28}
	d := diag.New(diag.SevError, diag.SynExpectSemicolon, insert, "expected ';'").
		WithNote(source.Span{File: fileID, Start: 0, End: 2}, "declaration starts here").
		WithFix("insert semicolon", diag.FixEdit{Span: insert, NewText: ";"})

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"note: api.sfi:1:1: declaration starts here",
		"fix #1: insert semicolon",
		`apply=";"`,
		"preview:",
		"- fn f(p: UnsafePointer<CInt>)",
		"+ fn f(p: UnsafePointer<CInt>);",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyReportsDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("api.sfi", []byte("fn f();\n"))
	bag := diag.NewBag(1)
	for range 3 {
		bag.Add(diag.NewError(diag.ThkNoAnnotations, source.Span{File: fileID}, "x"))
	}
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if !strings.Contains(buf.String(), "2 more diagnostic(s) not shown") {
		t.Fatalf("missing truncation footer:\n%s", buf.String())
	}
}
