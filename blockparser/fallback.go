package blockparser

import (
	"github.com/ranrar/marco/diag"
	"github.com/ranrar/marco/span"
)

// fallbackRule names one construct that parseRegion tried and rejected
// before falling through to a more general rule, and the chain it
// degrades along. The orchestrator never aborts on a grammar miss; it
// walks down this chain until a rule that always succeeds (paragraph)
// catches the line, per spec §9.
type fallbackRule struct {
	name  string
	chain []string
}

// fallbackTable is the small, fixed set of degrade chains a careful
// reader of parseRegion's recognizer order would expect: a construct
// that almost matched a stricter grammar is reported as degrading to
// the next rule down, not silently swallowed.
var fallbackTable = []fallbackRule{
	{name: "atx_heading", chain: []string{"atx_heading", "paragraph"}},
	{name: "table", chain: []string{"table", "paragraph"}},
	{name: "setext_heading", chain: []string{"setext_heading", "paragraph"}},
}

// looksLikeFailedATXHeading reports whether l has the shape of an ATX
// heading (leading '#' run within the indent limit) that recognizeATXHeading
// nonetheless rejected, e.g. more than 6 '#' characters or no space/tab
// after the run. Used only to decide whether a fallback Diagnostic is
// warranted; it never changes what gets parsed.
func looksLikeFailedATXHeading(source []byte, l lineSpan) bool {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 || contentStart >= l.End || source[contentStart] != '#' {
		return false
	}
	off := contentStart
	level := 0
	for off < l.End && source[off] == '#' {
		level++
		off++
	}
	if level < 1 {
		return false
	}
	if level > 6 {
		return true
	}
	return off < l.End && source[off] != ' ' && source[off] != '\t'
}

// looksLikeFailedTable reports whether l (together with the line after it)
// has the pipe-delimited shape of a GFM table whose delimiter row failed to
// validate (wrong column count, or a cell that isn't solely '-'/':'
// characters), the one case recognizeTable rejects after already
// committing to "this looks like a table header".
func looksLikeFailedTable(source []byte, lines []lineSpan, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	hasPipe := false
	for _, b := range lineText(source, lines[i]) {
		if b == '|' {
			hasPipe = true
			break
		}
	}
	if !hasPipe {
		return false
	}
	headerCells, ok := splitTableRow(source, lines[i])
	if !ok || len(headerCells) == 0 {
		return false
	}
	aligns, delimOK := parseDelimiterRow(source, lines[i+1])
	return !delimOK || len(aligns) != len(headerCells)
}

// noteFallback records a warning Diagnostic describing which rule a
// construct was degraded to, identified by name from fallbackTable. Unknown
// names are recorded as-is; the table exists for documentation and to keep
// call sites honest about the chain they're invoking, not to gate emission.
func noteFallback(bag *diag.Bag, ruleName string, sp span.Span) {
	degradeTo := "paragraph"
	for _, r := range fallbackTable {
		if r.name == ruleName && len(r.chain) > 1 {
			degradeTo = r.chain[1]
			break
		}
	}
	bag.Warn(ruleName+" did not match; falling back to "+degradeTo, sp, ruleName+"_fallback")
}
