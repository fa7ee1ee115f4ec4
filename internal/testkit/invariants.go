package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"safethunk/internal/ast"
	"safethunk/internal/source"
)

// CheckSpanInvariants runs the span invariants every parsed file must hold:
//  1. file.Span lies within the content of sf;
//  2. every item, declaration, attribute and parameter span is non-empty,
//     points at sf and is contained in its parent's span;
//  3. items do not overlap and come in source order.
func CheckSpanInvariants(file *ast.File, sf *source.File) error {
	if file == nil || sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if file.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", file.Span.File, sf.ID)
	}
	if file.Span.End > lenContent || file.Span.Start > file.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", file.Span, lenContent)
	}

	var prevEnd uint32
	for i, it := range file.Items {
		sp := it.Pos()
		if err := checkChild("item", sp, file.Span, sf.ID); err != nil {
			return err
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("item %d span %v overlaps the previous item", i, sp)
		}
		prevEnd = sp.End
		switch it := it.(type) {
		case *ast.FnDecl:
			if err := checkDecl(it, sf.ID); err != nil {
				return err
			}
		case *ast.ExternBlock:
			for _, d := range it.Decls {
				if err := checkChild("method", d.Span, it.Span, sf.ID); err != nil {
					return err
				}
				if err := checkDecl(d, sf.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkDecl(d *ast.FnDecl, id source.FileID) error {
	if err := checkChild("name of "+d.Name, d.NameSpan, d.Span, id); err != nil {
		return err
	}
	for _, a := range d.Attrs {
		if err := checkChild("@"+a.Name, a.Span, d.Span, id); err != nil {
			return err
		}
		for _, arg := range a.Args {
			if err := checkChild("argument of @"+a.Name, arg.Span, a.Span, id); err != nil {
				return err
			}
		}
	}
	for _, p := range d.Params {
		if err := checkChild("parameter "+p.FirstName, p.Span, d.Span, id); err != nil {
			return err
		}
		if err := checkChild("type of "+p.FirstName, p.Type.Span, p.Span, id); err != nil {
			return err
		}
	}
	if d.Result != nil {
		if err := checkChild("result of "+d.Name, d.Result.Span, d.Span, id); err != nil {
			return err
		}
	}
	return nil
}

func checkChild(what string, sp, parent source.Span, id source.FileID) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("%s: empty span %v", what, sp)
	}
	if sp.File != id {
		return fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, id)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%s: span %v is outside %v", what, sp, parent)
	}
	return nil
}
