/*
Package span implements source coordinates and byte-accurate ranges for the
Marco markdown engine.

# ARCHITECTURE OVERVIEW

Every node the engine produces carries a Span so the LSP highlight layer can
map colored regions back to the exact bytes the editor buffer holds, even
after the parser has dedented list items, stripped blockquote markers,
expanded tabs, or removed task checkboxes from the text it hands to the
inline parser. That means Span arithmetic has to be cheap, copyable, and
independent of any parser state — a Span is just two Positions, and a
Position is just (line, column, byte offset).

KEY DESIGN PRINCIPLES
  - Spans are exclusive on the end: end points one byte past the last byte
    of the covered region. This matches the editor's own range convention
    and makes concatenation (Merge) trivial.
  - Column counting is 1-based and tab-aware: a tab advances the column to
    the next multiple of 4, not to the next single column.
  - Spans never carry a reference to the source bytes; callers that need
    the covered text re-slice the original source by Offset.
*/
package span

import (
	"fmt"

	"github.com/rivo/uniseg"
)

// TabSize is the column width a literal tab advances to the next multiple of.
const TabSize = 4

// Position identifies one point in a UTF-8 source buffer.
type Position struct {
	Line   uint32 // 1-based
	Column uint32 // 1-based
	Offset uint64 // 0-based byte offset
}

// String renders a Position as "line:column", the form used in diagnostics.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Less reports whether p sorts before o by byte offset.
func (p Position) Less(o Position) bool {
	return p.Offset < o.Offset
}

// Span is a half-open source range: [Start, End).
type Span struct {
	Start Position
	End   Position
}

// String renders a Span as "L:C-L:C", the form used in data-sourcepos attributes.
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() uint64 {
	if s.End.Offset < s.Start.Offset {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start.Offset <= o.Start.Offset && o.End.Offset <= s.End.Offset
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start.Offset < o.End.Offset && o.Start.Offset < s.End.Offset
}

// Value returns the slice of source covered by s.
func (s Span) Value(source []byte) []byte {
	if s.End.Offset > uint64(len(source)) || s.Start.Offset > s.End.Offset {
		return nil
	}
	return source[s.Start.Offset:s.End.Offset]
}

// InvalidRangeError is returned by SpanFrom when the requested byte range is
// malformed or out of bounds.
type InvalidRangeError struct {
	Start, End uint64
	SourceLen  int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("span: invalid range [%d,%d) for source of length %d", e.Start, e.End, e.SourceLen)
}

// Index precomputes byte-offset -> (line, column) lookups for one source
// buffer, amortizing the per-line column scan (tabs require replaying bytes
// from the start of the line) across many SpanFrom calls against the same
// source, as a single parse does.
type Index struct {
	source     []byte
	lineStarts []uint64 // byte offset of the first byte of each line (0-based index = line-1)
}

// NewIndex scans source once and builds a line-start table.
func NewIndex(source []byte) *Index {
	idx := &Index{source: source, lineStarts: []uint64{0}}
	for i, b := range source {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, uint64(i+1))
		}
	}
	return idx
}

// Position computes the (line, column) for a byte offset by locating the
// containing line via binary search, then replaying that line's bytes up to
// offset to account for tabs and multi-byte runes.
func (idx *Index) Position(offset uint64) Position {
	line := idx.lineForOffset(offset)
	lineStart := idx.lineStarts[line-1]
	column := uint32(1)
	i := lineStart
	for i < offset && i < uint64(len(idx.source)) {
		r, size := decodeRune(idx.source[i:])
		column = AdvanceColumn(column, r)
		i += uint64(size)
	}
	return Position{Line: uint32(line), Column: column, Offset: offset}
}

func (idx *Index) lineForOffset(offset uint64) int {
	lo, hi := 0, len(idx.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// LineCount returns the number of lines in the indexed source (at least 1).
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}

func decodeRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	gr, _, _, _ := uniseg.FirstGraphemeClusterInString(string(b), -1)
	if gr == "" {
		return rune(b[0]), 1
	}
	runes := []rune(gr)
	return runes[0], len(gr)
}

// SpanFrom builds a Span covering source[start:end], validating the range
// and computing both endpoints' (line, column) via idx.
func SpanFrom(idx *Index, start, end uint64) (Span, error) {
	if end < start || end > uint64(len(idx.source)) {
		return Span{}, &InvalidRangeError{Start: start, End: end, SourceLen: len(idx.source)}
	}
	return Span{Start: idx.Position(start), End: idx.Position(end)}, nil
}

// Merge returns the smallest span covering both a and b. Callers must
// ensure a and b were derived from the same source.
func Merge(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// AdvanceColumn implements the engine's tab rule: a literal tab advances the
// column to the next multiple of TabSize (1-based columns, so the rule is
// applied against column-1). Any other rune simply advances by one column.
func AdvanceColumn(column uint32, ch rune) uint32 {
	if ch == '\t' {
		return ((column-1)/TabSize+1)*TabSize + 1
	}
	return column + 1
}
