package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint     // instant event
	KindHeartbeat // periodic liveness signal
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeRun   Scope = iota + 1 // one CLI invocation
	ScopeFile                   // one input file
	ScopeDecl                   // one annotated declaration
	ScopeStage                  // one synthesis stage of a declaration
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeFile:
		return "file"
	case ScopeDecl:
		return "decl"
	case ScopeStage:
		return "stage"
	default:
		return "unknown"
	}
}

// Event is a single trace record. The msgpack tags define the dump format.
type Event struct {
	Time     time.Time         `msgpack:"t"`
	Seq      uint64            `msgpack:"seq"`
	Kind     Kind              `msgpack:"k"`
	Scope    Scope             `msgpack:"s"`
	SpanID   uint64            `msgpack:"id"`
	ParentID uint64            `msgpack:"parent,omitempty"`
	GID      uint64            `msgpack:"gid,omitempty"`
	Name     string            `msgpack:"name"`
	Detail   string            `msgpack:"detail,omitempty"`
	Extra    map[string]string `msgpack:"extra,omitempty"`
}
