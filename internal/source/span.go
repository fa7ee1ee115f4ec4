package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoFile is a FileID no FileSet hands out.
const NoFile = ^FileID(0)

// NoSpan marks diagnostics that belong to no file: I/O failures, timings.
var NoSpan = Span{File: NoFile}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// Shrink drops n bytes from both ends; used to address the interior of a
// quoted literal. Shrinking past the middle yields an empty span at the middle.
func (s Span) Shrink(n uint32) Span {
	if s.Len() < 2*n {
		mid := s.Start + s.Len()/2
		return Span{File: s.File, Start: mid, End: mid}
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End - n}
}

// ZeroideToStart collapses the span to its start offset.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroideToEnd collapses the span to its end offset.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
