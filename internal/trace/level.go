package trace

import (
	"fmt"
	"strings"
)

// Level controls how deep the span tree is recorded.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // nothing is streamed; the ring is dumped on failure
	LevelFile        // run and file boundaries
	LevelDecl        // plus one span per declaration
	LevelDebug       // plus synthesis stages
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelFile:
		return "file"
	case LevelDecl:
		return "decl"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel reads a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "file":
		return LevelFile, nil
	case "decl":
		return LevelDecl, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|file|decl|debug)", s)
	}
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelFile:
		return scope <= ScopeFile
	case LevelDecl:
		return scope <= ScopeDecl
	case LevelDebug:
		return true
	default:
		return false
	}
}
