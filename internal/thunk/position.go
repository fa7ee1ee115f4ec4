package thunk

import "strconv"

type PositionKind uint8

const (
	PosParam PositionKind = iota + 1
	PosReturn
	PosSelf
)

// Position identifies the target of an annotation. Index is the 1-based
// parameter ordinal and is zero for the other kinds.
type Position struct {
	Kind  PositionKind
	Index int
}

var (
	Return = Position{Kind: PosReturn}
	Self   = Position{Kind: PosSelf}
)

func Param(i int) Position {
	return Position{Kind: PosParam, Index: i}
}

func (p Position) IsParam() bool { return p.Kind == PosParam }

// String renders p the way it is written in annotations.
func (p Position) String() string {
	switch p.Kind {
	case PosParam:
		return ".param(" + strconv.Itoa(p.Index) + ")"
	case PosReturn:
		return ".return"
	case PosSelf:
		return ".self"
	default:
		return "<invalid position>"
	}
}
