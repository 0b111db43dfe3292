package blockparser

import (
	"strconv"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// isBlockQuoteMarker reports whether l opens (or continues) a blockquote.
func isBlockQuoteMarker(source []byte, l lineSpan) bool {
	indent, contentStart := leadingIndent(source, l)
	return indent <= 3 && contentStart < l.End && source[contentStart] == '>'
}

// stripBlockQuoteMarker returns the lineSpan for l with its leading "> " (or
// ">") marker removed, a simple byte-offset shift requiring no remap since
// the stripped prefix is a contiguous run at the line's start.
func stripBlockQuoteMarker(source []byte, l lineSpan) lineSpan {
	_, contentStart := leadingIndent(source, l)
	start := contentStart + 1 // past '>'
	if start < l.End && (source[start] == ' ' || source[start] == '\t') {
		start++
	}
	if start > l.End {
		start = l.End
	}
	return lineSpan{Start: start, End: l.End}
}

// recognizeBlockQuote consumes a maximal run of lines forming one
// blockquote, including lazily-continued lines (a non-blank line with no
// ">" marker that follows a marked line, so long as it wouldn't otherwise
// start a new block). The stripped content is reparsed via parseRegion
// using the same source/idx, since stripping a ">" marker is a pure
// byte-offset shift.
func recognizeBlockQuote(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int, depth int) (*ast.Node, int, bool) {
	if !isBlockQuoteMarker(source, lines[i]) {
		return nil, 0, false
	}
	j := i
	var inner []lineSpan
	for j < len(lines) {
		l := lines[j]
		if isBlockQuoteMarker(source, l) {
			inner = append(inner, stripBlockQuoteMarker(source, l))
			j++
			continue
		}
		if isBlank(source, l) {
			break
		}
		// Lazy continuation: a plain paragraph-continuation line that does
		// not itself open a new block construct.
		if j > i && !startsNewBlock(ctx, source, idx, lines, j) {
			inner = append(inner, l)
			j++
			continue
		}
		break
	}

	sp := span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[j-1].End)}
	node := ast.NewNode(ast.KindBlockQuote, sp)
	children := parseRegion(ctx, source, idx, inner, depth+1)
	for _, c := range children {
		ast.AppendChild(node, c)
	}
	return node, j - i, true
}

// listMarker describes a parsed bullet or ordered list marker.
type listMarker struct {
	ordered    bool
	char       byte   // bullet char, or the ordered delimiter ('.' or ')')
	start      uint32 // ordered start value
	contentCol int    // column (0-based) where item content begins, counted from the line's start (includes the marker's indent)
	markerEnd  uint64 // byte offset just past the marker + its following spaces
}

// parseListMarker recognizes a list marker at the start of l's content
// (after leading indentation), returning the marker (whose contentCol is
// used for item dedent), the line's leading indentation in columns, and the
// byte offset where item content begins.
func parseListMarker(source []byte, l lineSpan) (marker listMarker, indent int, contentStart uint64, ok bool) {
	indent, cs := leadingIndent(source, l)
	if indent > 3 {
		return listMarker{}, 0, 0, false
	}
	off := cs
	if off >= l.End {
		return listMarker{}, 0, 0, false
	}
	b := source[off]
	if b == '-' || b == '*' || b == '+' {
		next := off + 1
		if next < l.End && source[next] != ' ' && source[next] != '\t' {
			return listMarker{}, 0, 0, false
		}
		marker = listMarker{ordered: false, char: b}
		return consumeMarkerSpacing(source, l, indent, next, marker)
	}
	if b >= '0' && b <= '9' {
		digits := off
		for digits < l.End && source[digits] >= '0' && source[digits] <= '9' && digits-off < 9 {
			digits++
		}
		if digits >= l.End || (source[digits] != '.' && source[digits] != ')') {
			return listMarker{}, 0, 0, false
		}
		n, _ := strconv.ParseUint(string(source[off:digits]), 10, 32)
		next := digits + 1
		if next < l.End && source[next] != ' ' && source[next] != '\t' {
			return listMarker{}, 0, 0, false
		}
		marker = listMarker{ordered: true, char: source[digits], start: uint32(n)}
		return consumeMarkerSpacing(source, l, indent, next, marker)
	}
	return listMarker{}, 0, 0, false
}

func consumeMarkerSpacing(source []byte, l lineSpan, indent int, afterMarker uint64, marker listMarker) (listMarker, int, uint64, bool) {
	if afterMarker >= l.End {
		// Marker with no content on this line: item content starts one
		// column past the marker.
		marker.markerEnd = afterMarker
		marker.contentCol = indent + markerColumnsWidth(marker) + 1
		return marker, indent, afterMarker, true
	}
	spaceCols := 0
	off := afterMarker
	for off < l.End && (source[off] == ' ' || source[off] == '\t') && spaceCols < 4 {
		spaceCols++
		off++
	}
	if spaceCols == 0 {
		return listMarker{}, 0, 0, false
	}
	marker.markerEnd = off
	marker.contentCol = indent + markerColumnsWidth(marker) + spaceCols
	return marker, indent, off, true
}

func markerColumnsWidth(m listMarker) int {
	if m.ordered {
		return len(strconv.FormatUint(uint64(m.start), 10)) + 1
	}
	return 1
}

// recognizeList consumes a maximal run of list items sharing a compatible
// marker type (bullet char, or ordered delimiter), computing tightness per
// CommonMark (a list is loose if any item is separated from the next by a
// blank line, or any item's own content contains a blank line between
// top-level blocks).
func recognizeList(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int, depth int) (*ast.Node, int, bool) {
	firstMarker, _, _, ok := parseListMarker(source, lines[i])
	if !ok {
		return nil, 0, false
	}

	listNode := ast.NewNode(ast.KindList, span.Span{})
	listNode.Ordered = firstMarker.ordered
	if firstMarker.ordered {
		start := firstMarker.start
		listNode.Start = &start
	}

	j := i
	loose := false
	var items []*ast.Node

	for j < len(lines) {
		if isBlank(source, lines[j]) {
			// A run of blank lines between items; consumed below once we
			// know whether another item follows.
			k := j
			for k < len(lines) && isBlank(source, lines[k]) {
				k++
			}
			if k >= len(lines) {
				j = k
				break
			}
			if m, _, _, ok2 := parseListMarker(source, lines[k]); ok2 && sameListType(firstMarker, m) {
				loose = true
				j = k
				continue
			}
			j = k
			break
		}

		m, _, _, ok2 := parseListMarker(source, lines[j])
		if !ok2 || !sameListType(firstMarker, m) {
			break
		}

		itemStart := j
		itemLines := []lineSpan{stripListMarkerLine(source, lines[j], m)}
		checked, taskMarkerStart, taskMarkerEnd, taskContentStart, isTask := detectTaskCheckboxLine(source, itemLines[0])
		if isTask {
			itemLines[0] = lineSpan{Start: taskContentStart, End: itemLines[0].End}
		}
		j++
		for j < len(lines) {
			if isBlank(source, lines[j]) {
				// Peek ahead: if followed eventually by content indented
				// enough to belong to this item, include the blank and
				// keep going; otherwise this item ends here.
				k := j
				for k < len(lines) && isBlank(source, lines[k]) {
					k++
				}
				if k < len(lines) {
					ci, _ := leadingIndent(source, lines[k])
					if ci >= m.contentCol {
						for b := j; b < k; b++ {
							itemLines = append(itemLines, lineSpan{Start: lines[b].End, End: lines[b].End})
						}
						j = k
						continue
					}
				}
				break
			}
			ci, _ := leadingIndent(source, lines[j])
			if ci >= m.contentCol {
				itemLines = append(itemLines, dedentToColumn(source, lines[j], m.contentCol))
				j++
				continue
			}
			if startsNewBlock(ctx, source, idx, lines, j) {
				break
			}
			if _, _, _, isMarker := parseListMarker(source, lines[j]); isMarker {
				break
			}
			// Lazy continuation of a paragraph within the item.
			itemLines = append(itemLines, lines[j])
			j++
		}

		synthetic, omap := buildDedentedRegion(source, itemLines, 0)
		synIdx := span.NewIndex([]byte(synthetic))
		synLines := splitLines([]byte(synthetic))
		children := parseRegion(ctx, []byte(synthetic), synIdx, synLines, depth+1)
		for _, c := range children {
			remapTree(c, omap, idx)
		}

		// Detect an internal blank line (between top-level child blocks)
		// to mark the list loose.
		for k := itemStart + 1; k < j-1; k++ {
			if isBlank(source, lines[k]) {
				loose = true
				break
			}
		}

		itemSp := span.Span{Start: idx.Position(lines[itemStart].Start), End: idx.Position(lines[j-1].End)}
		itemNode := ast.NewNode(ast.KindListItem, itemSp)
		if isTask {
			checkboxSp := span.Span{Start: idx.Position(taskMarkerStart), End: idx.Position(taskMarkerEnd)}
			checkbox := ast.NewNode(ast.KindTaskCheckbox, checkboxSp)
			checkbox.Checked = checked
			ast.AppendChild(itemNode, checkbox)
		}
		for _, c := range children {
			ast.AppendChild(itemNode, c)
		}
		if isTask {
			t := true
			itemNode.Task = &t
			itemNode.Checked = checked
		}
		items = append(items, itemNode)
	}

	listNode.Tight = !loose
	for _, it := range items {
		ast.AppendChild(listNode, it)
	}
	if len(items) > 0 {
		listNode.SetSpan(span.Span{Start: items[0].Span().Start, End: items[len(items)-1].Span().End})
	}
	return listNode, j - i, true
}

func sameListType(a, b listMarker) bool {
	if a.ordered != b.ordered {
		return false
	}
	if a.ordered {
		return a.char == b.char
	}
	return a.char == b.char
}

func stripListMarkerLine(source []byte, l lineSpan, m listMarker) lineSpan {
	start := m.markerEnd
	if start == 0 || start < l.Start {
		_, cs := leadingIndent(source, l)
		start = cs
	}
	if start > l.End {
		start = l.End
	}
	return lineSpan{Start: start, End: l.End}
}

func dedentToColumn(source []byte, l lineSpan, columns int) lineSpan {
	return dedentIndentedLine2(source, l, columns)
}

func dedentIndentedLine2(source []byte, l lineSpan, columns int) lineSpan {
	col := 0
	i := l.Start
	for i < l.End && col < columns {
		b := source[i]
		if b == ' ' {
			col++
			i++
		} else if b == '\t' {
			col = int(advanceColumn(uint32(col+1), '\t')) - 1
			i++
		} else {
			break
		}
	}
	return lineSpan{Start: i, End: l.End}
}

// remapTree walks n's subtree and remaps every node's span from synthetic
// dedented-string coordinates back to original-source coordinates in
// place, used after parsing a list item's synthetic content region.
func remapTree(n *ast.Node, m *offsetMap, origIdx *span.Index) {
	n.SetSpan(remapSpan(n.Span(), m, origIdx))
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		remapTree(c, m, origIdx)
	}
}

// detectTaskCheckboxLine inspects a list item's first content line for a
// leading "[ ]"/"[x]"/"[X]" task marker, before any block or inline parsing
// of the item's content runs. This ordering matters: the marker is
// stripped from the raw source line itself (contentStart skips past it
// and one following space), so the item's remaining content is block- and
// inline-parsed exactly as if the marker had never been there, and the
// marker's own span never leaks into the parsed content's spans.
func detectTaskCheckboxLine(source []byte, l lineSpan) (checked bool, markerStart, markerEnd, contentStart uint64, ok bool) {
	if l.End-l.Start < 3 {
		return false, 0, 0, 0, false
	}
	off := l.Start
	if source[off] != '[' || source[off+2] != ']' {
		return false, 0, 0, 0, false
	}
	mark := source[off+1]
	if mark != ' ' && mark != 'x' && mark != 'X' {
		return false, 0, 0, 0, false
	}
	rest := off + 3
	if rest < l.End && source[rest] == ' ' {
		rest++
	}
	return mark == 'x' || mark == 'X', off, off + 3, rest, true
}
