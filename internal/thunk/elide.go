package thunk

import "safethunk/internal/ast"

// skipTrivialCount reports whether every counted record has a count that is
// an integer literal or a reference to a parameter no other count uses.
// ForeignSpan records carry no count and do not take part.
func skipTrivialCount(infos []ParamInfo) bool {
	used := make(map[int]bool)
	for _, info := range infos {
		cb, ok := info.(*CountedBy)
		if !ok {
			continue
		}
		switch cb.Count.(type) {
		case *ast.IntLit:
		case *ast.Ident:
			if used[cb.CountParam] {
				return false
			}
			used[cb.CountParam] = true
		default:
			return false
		}
	}
	return true
}
