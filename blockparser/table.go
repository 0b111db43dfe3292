package blockparser

import (
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/inline"
	"github.com/ranrar/marco/span"
)

// recognizeTable consumes a GFM table: a header row, a delimiter row of
// dashes/colons establishing column count and alignment, and zero or more
// body rows. Body rows with too few cells are padded with empty cells; rows
// with too many have their extras discarded, per GFM.
func recognizeTable(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	if i+1 >= len(lines) {
		return nil, 0, false
	}
	headerCells, headerOK := splitTableRow(source, lines[i])
	if !headerOK || len(headerCells) == 0 {
		return nil, 0, false
	}
	aligns, delimOK := parseDelimiterRow(source, lines[i+1])
	if !delimOK || len(aligns) != len(headerCells) {
		return nil, 0, false
	}

	tableNode := ast.NewNode(ast.KindTable, span.Span{})
	tableNode.Alignments = aligns

	headerRow := ast.NewNode(ast.KindTableRow, span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[i].End)})
	headerRow.HeaderRow = true
	for ci, hc := range headerCells {
		cell := ast.NewNode(ast.KindTableCell, span.Span{Start: idx.Position(hc.start), End: idx.Position(hc.end)})
		if ci < len(aligns) {
			cell.Alignments = []ast.Alignment{aligns[ci]}
		}
		attachCellInlines(ctx, cell, hc, idx)
		ast.AppendChild(headerRow, cell)
	}
	ast.AppendChild(tableNode, headerRow)

	j := i + 2
	for j < len(lines) {
		if isBlank(source, lines[j]) {
			break
		}
		cells, ok := splitTableRow(source, lines[j])
		if !ok {
			break
		}
		row := ast.NewNode(ast.KindTableRow, span.Span{Start: idx.Position(lines[j].Start), End: idx.Position(lines[j].End)})
		lineEndPos := idx.Position(lines[j].End)
		for ci := 0; ci < len(headerCells); ci++ {
			var cellSpan span.Span
			var tc tableCell
			hasText := ci < len(cells)
			if hasText {
				tc = cells[ci]
				cellSpan = span.Span{Start: idx.Position(tc.start), End: idx.Position(tc.end)}
			} else {
				cellSpan = span.Span{Start: lineEndPos, End: lineEndPos}
			}
			cell := ast.NewNode(ast.KindTableCell, cellSpan)
			if ci < len(aligns) {
				cell.Alignments = []ast.Alignment{aligns[ci]}
			}
			if hasText {
				attachCellInlines(ctx, cell, tc, idx)
			}
			ast.AppendChild(row, cell)
		}
		ast.AppendChild(tableNode, row)
		j++
	}

	tableNode.SetSpan(span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[j-1].End)})
	return tableNode, j - i, true
}

// attachCellInlines runs the inline parser over a table cell's text. The
// cell's text is, by construction, a contiguous source slice (no per-line
// trimming is involved, unlike a multi-line paragraph), so its own start
// offset can be used directly as the inline parser's base offset.
func attachCellInlines(ctx *blockContext, cell *ast.Node, tc tableCell, idx *span.Index) {
	if ctx == nil || tc.text == "" {
		return
	}
	inlineCtx := &inline.Context{Doc: ctx.doc, Bag: ctx.bag}
	for _, c := range inline.ParseLeaf(inlineCtx, tc.text, idx, tc.start) {
		ast.AppendChild(cell, c)
	}
}

// tableCell is one pipe-delimited cell of a table row, carrying both its
// trimmed text and the original-source byte offsets that text spans, so
// the cell's AST node gets an accurate span instead of a synthetic one.
type tableCell struct {
	text       string
	start, end uint64
}

// splitTableRow splits a row on unescaped, non-code-span pipes, trimming
// one leading and one trailing pipe if present. Offsets are tracked in
// bytes throughout: the only multi-byte-relevant characters here (pipe,
// backtick, backslash, space, tab) are all single-byte ASCII, so byte
// scanning never splits a UTF-8 sequence.
func splitTableRow(source []byte, l lineSpan) ([]tableCell, bool) {
	start, end := trimLineSpan(source, l)
	if start >= end {
		return nil, false
	}
	var cells []tableCell
	cellStart := start
	inCode := false
	off := start
	for off < end {
		b := source[off]
		if b == '`' {
			inCode = !inCode
			off++
			continue
		}
		if b == '\\' && !inCode && off+1 < end {
			off += 2
			continue
		}
		if b == '|' && !inCode {
			cells = append(cells, trimCell(source, cellStart, off))
			off++
			cellStart = off
			continue
		}
		off++
	}
	cells = append(cells, trimCell(source, cellStart, end))

	if len(cells) > 1 && cells[0].text == "" {
		cells = cells[1:]
	}
	if len(cells) > 1 && cells[len(cells)-1].text == "" {
		cells = cells[:len(cells)-1]
	}
	if len(cells) == 0 {
		return nil, false
	}
	return cells, true
}

func trimCell(source []byte, start, end uint64) tableCell {
	for start < end && isSpaceOrTab(source[start]) {
		start++
	}
	for end > start && isSpaceOrTab(source[end-1]) {
		end--
	}
	return tableCell{text: string(source[start:end]), start: start, end: end}
}

func isSpaceOrTab(b byte) bool { return b == ' ' || b == '\t' }

func trimLineSpan(source []byte, l lineSpan) (uint64, uint64) {
	start, end := l.Start, l.End
	for start < end && isSpaceOrTab(source[start]) {
		start++
	}
	for end > start && isSpaceOrTab(source[end-1]) {
		end--
	}
	return start, end
}

func parseDelimiterRow(source []byte, l lineSpan) ([]ast.Alignment, bool) {
	cells, ok := splitTableRow(source, l)
	if !ok {
		return nil, false
	}
	aligns := make([]ast.Alignment, len(cells))
	for i, tc := range cells {
		c := strings.TrimSpace(tc.text)
		if c == "" {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		body := strings.Trim(c, ":")
		if body == "" || strings.Trim(body, "-") != "" {
			return nil, false
		}
		switch {
		case left && right:
			aligns[i] = ast.AlignCenter
		case left:
			aligns[i] = ast.AlignLeft
		case right:
			aligns[i] = ast.AlignRight
		default:
			aligns[i] = ast.AlignNone
		}
	}
	return aligns, true
}
