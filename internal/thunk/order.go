package thunk

import "slices"

// order moves the record targeting the return value to the end, keeping the
// relative order of the rest. The last record becomes the outermost builder.
func order(infos []ParamInfo) []ParamInfo {
	out := slices.Clone(infos)
	slices.SortStableFunc(out, func(a, b ParamInfo) int {
		return returnRank(a) - returnRank(b)
	})
	return out
}

func returnRank(info ParamInfo) int {
	if info.site().Pointer == Return {
		return 1
	}
	return 0
}
