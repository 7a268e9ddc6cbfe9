package token

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Span is a half-open range [Start, End) into source text.
//
// Spans produced by the parser index tokens; the precompiler rewrites
// them into byte offsets. The zero span 0..0 marks hand-built nodes.
type Span struct {
	Start int
	End   int
}

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// IsZero reports whether s is the sentinel span 0..0.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Len returns the width of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset lies inside s. Both boundaries count,
// so a cursor placed directly after a node still selects it.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// Join returns the smallest span covering s and o.
func (s Span) Join(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position represents a location in the source code.
type Position struct {
	Line   int // 0-based line number
	Column int // 0-based column, counted in UTF-16 code units
	Offset int // 0-based byte offset
}

// LineIndex translates between byte offsets and line/column positions.
type LineIndex struct {
	src        string
	lineStarts []int
}

// NewLineIndex builds an index over src.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, lineStarts: starts}
}

// Position returns the line/column position of a byte offset.
func (li *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, len(li.src)))
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	col := 0
	for _, r := range li.src[li.lineStarts[line]:offset] {
		col += utf16Len(r)
	}
	return Position{Line: line, Column: col, Offset: offset}
}

// Offset returns the byte offset of a line/column position. Positions past
// the end of a line clamp to the line end.
func (li *LineIndex) Offset(line, column int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.lineStarts) {
		return len(li.src)
	}
	offset := li.lineStarts[line]
	col := 0
	for col < column && offset < len(li.src) {
		r, size := utf8.DecodeRuneInString(li.src[offset:])
		if r == '\n' {
			break
		}
		col += utf16Len(r)
		offset += size
	}
	return offset
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
