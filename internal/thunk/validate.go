package thunk

import (
	"slices"

	"safethunk/internal/ast"
	"safethunk/internal/diag"
)

// validate rejects the whole set on the first bad position.
func validate(dc *DeclContext, infos []ParamInfo, nonescaping map[Position]ast.Node, lifetimes map[Position][]LifetimeDependence) error {
	seen := make(map[Position]ParamInfo, len(infos))
	for _, info := range infos {
		s := info.site()
		if err := checkPosition(dc, s.Pointer, s.Original); err != nil {
			return err
		}
		if prev, dup := seen[s.Pointer]; dup {
			return duplicateError(s, prev.site())
		}
		seen[s.Pointer] = info
	}
	for _, info := range infos {
		if err := checkCountParam(dc, info, seen); err != nil {
			return err
		}
	}

	// nonescaping и концы lifetime-рёбер проверяются в стабильном порядке
	for _, pos := range sortedPositions(nonescaping) {
		if err := checkPosition(dc, pos, nonescaping[pos]); err != nil {
			return err
		}
	}
	for _, pos := range sortedPositions(lifetimes) {
		for _, dep := range lifetimes[pos] {
			if err := checkPosition(dc, pos, dep.Node); err != nil {
				return err
			}
			if err := checkDependsOn(dc, dep); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPosition(dc *DeclContext, pos Position, node ast.Node) error {
	switch pos.Kind {
	case PosSelf:
		return structural(PhaseValidate, diag.ThkReceiverAnnotated, node, "do not annotate self")
	case PosParam:
		if pos.Index < 1 || pos.Index > dc.ParamCount() {
			return dc.indexNote(structural(PhaseValidate, diag.ThkIndexOutOfRange, node, "pointer index out of bounds"))
		}
	}
	return nil
}

// checkCountParam rejects a count that names a parameter some record
// rewrites: the pointer itself, or another annotated pointer.
func checkCountParam(dc *DeclContext, info ParamInfo, seen map[Position]ParamInfo) error {
	c, ok := info.(*CountedBy)
	if !ok || c.CountParam == 0 {
		return nil
	}
	if c.CountParam == c.Pointer.Index && c.Pointer.IsParam() {
		return structural(PhaseValidate, diag.ThkCountReference, c.Count,
			"count of parameter %d refers to the pointer itself", c.CountParam)
	}
	other, annotated := seen[Param(c.CountParam)]
	if !annotated {
		return nil
	}
	err := structural(PhaseValidate, diag.ThkCountReference, c.Count,
		"count refers to parameter %d (%s), which is itself an annotated pointer", c.CountParam, dc.ParamName(c.CountParam))
	if o := other.site().Original; o != nil {
		err.withNote(o.Pos(), "annotation of that parameter is here")
	}
	return err
}

func checkDependsOn(dc *DeclContext, dep LifetimeDependence) error {
	switch dep.DependsOn.Kind {
	case PosSelf:
		if dc.Receiver == nil {
			return structural(PhaseValidate, diag.ThkReceiverAnnotated, dep.Node,
				"lifetime dependence on self in function %s, which has no receiver", dc.Name())
		}
	case PosParam:
		if i := dep.DependsOn.Index; i < 1 || i > dc.ParamCount() {
			return dc.indexNote(structural(PhaseValidate, diag.ThkIndexOutOfRange, dep.Node, "pointer index out of bounds"))
		}
	}
	return nil
}

func duplicateError(s, prev *Site) *Error {
	var err *Error
	if s.Pointer == Return {
		err = structural(PhaseValidate, diag.ThkDuplicateAnnotation, s.Original, "multiple annotations referring to return value")
	} else {
		err = structural(PhaseValidate, diag.ThkDuplicateAnnotation, s.Original,
			"multiple annotations referring to parameter with index %d", s.Pointer.Index)
	}
	if prev.Original != nil {
		err.withNote(prev.Original.Pos(), "previous annotation is here")
	}
	return err
}

func sortedPositions[V any](m map[Position]V) []Position {
	out := make([]Position, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	slices.SortFunc(out, comparePositions)
	return out
}

func comparePositions(a, b Position) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	return a.Index - b.Index
}
