package thunk

import "safethunk/internal/ast"

type DependenceKind uint8

const (
	Borrow DependenceKind = iota + 1
	Copy
)

func (k DependenceKind) String() string {
	if k == Copy {
		return "copy"
	}
	return "borrow"
}

// LifetimeDependence says that the value at the keyed position is only valid
// while DependsOn is. DependsOn is never Return.
type LifetimeDependence struct {
	DependsOn Position
	Kind      DependenceKind
	Node      ast.Node
}

// Site holds the fields shared by every ParamInfo variant.
type Site struct {
	Pointer Position
	// Nonescaping and Dependencies are filled in by the resolver.
	Nonescaping  bool
	Dependencies []LifetimeDependence
	// Original is the node diagnostics about this record point at.
	Original ast.Node
}

func (s *Site) site() *Site { return s }

// ParamInfo is a closed sum: *CountedBy or *ForeignSpan.
type ParamInfo interface {
	site() *Site
}

// CountedBy describes a pointer whose length is given by Count, in elements
// or, with SizedBy, in bytes.
type CountedBy struct {
	Site
	Count   ast.Expr
	SizedBy bool
	// CountParam is the 1-based index of the parameter Count refers to when
	// Count is a bare identifier, zero otherwise.
	CountParam int
}

// ForeignSpan is a foreign contiguous-range type found through the type
// mapping table; TypeMappings maps printed foreign names to their
// desugared spelling.
type ForeignSpan struct {
	Site
	TypeMappings map[string]string
}

// SiteOf exposes the common fields of info.
func SiteOf(info ParamInfo) *Site {
	return info.site()
}
