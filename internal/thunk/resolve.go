package thunk

import "safethunk/internal/ast"

// resolve sets Nonescaping and Dependencies on every record and drops the
// ForeignSpan records there is nothing to do for: escaping parameters and
// results without dependencies. Running it twice gives the same result.
func resolve(infos []ParamInfo, nonescaping map[Position]ast.Node, lifetimes map[Position][]LifetimeDependence) []ParamInfo {
	out := infos[:0:0]
	for _, info := range infos {
		s := info.site()
		_, s.Nonescaping = nonescaping[s.Pointer]
		s.Dependencies = append([]LifetimeDependence(nil), lifetimes[s.Pointer]...)

		if _, foreign := info.(*ForeignSpan); foreign {
			if s.Pointer == Return && len(s.Dependencies) == 0 {
				continue
			}
			if s.Pointer != Return && !s.Nonescaping {
				continue
			}
		}
		out = append(out, info)
	}
	return out
}
