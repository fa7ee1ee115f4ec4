package project

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"safethunk/internal/parser"
)

// Text renders the entry as the `safethunk(...)` call the driver parses.
// Mapping keys are sorted so the text, and the cache key built from it, is
// stable.
func (s Sidecar) Text() string {
	var sb strings.Builder
	sb.WriteString("safethunk(")
	sb.WriteString(strings.Join(s.Infos, ", "))
	if len(s.Types) > 0 {
		if len(s.Infos) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for i, k := range slices.Sorted(maps.Keys(s.Types)) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(parser.Quote(k) + ": " + parser.Quote(s.Types[k]))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(')')
	return sb.String()
}

// VirtualName names the in-memory file holding the i-th sidecar entry, so
// diagnostics on it point back into the config.
func VirtualName(configPath string, i int) string {
	if configPath == "" {
		configPath = ConfigName
	}
	return configPath + "#annotations[" + strconv.Itoa(i) + "]"
}
