package blockparser

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// isFootnoteDefOpen reports whether l opens a footnote definition
// ("[^label]:"), used by startsNewBlock so a paragraph's lazy-continuation
// scan stops before absorbing one.
func isFootnoteDefOpen(source []byte, l lineSpan) bool {
	_, contentStart := leadingIndent(source, l)
	off := contentStart
	if off >= l.End || source[off] != '[' {
		return false
	}
	off++
	if off >= l.End || source[off] != '^' {
		return false
	}
	off++
	labelStart := off
	for off < l.End && source[off] != ']' {
		off++
	}
	if off >= l.End || off == labelStart {
		return false
	}
	off++
	return off < l.End && source[off] == ':'
}

// recognizeFootnoteDefinition consumes a GFM-style footnote definition,
// "[^label]: content", where content is the first line's remainder plus
// any following lines indented at least to the label's content column
// (the same continuation shape as a list item, per spec.md §3.3's
// footnote_definitions side table). It registers the content subtree into
// the document's footnote table and contributes no node to its containing
// block's children; the returned *ast.Node is always nil.
func recognizeFootnoteDefinition(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int, depth int) (*ast.Node, int, bool) {
	l := lines[i]
	_, contentStart := leadingIndent(source, l)
	if contentStart >= l.End || source[contentStart] != '[' {
		return nil, 0, false
	}
	off := contentStart + 1
	if off >= l.End || source[off] != '^' {
		return nil, 0, false
	}
	off++
	labelStart := off
	for off < l.End && source[off] != ']' {
		off++
	}
	if off >= l.End || off == labelStart {
		return nil, 0, false
	}
	label := string(source[labelStart:off])
	off++
	if off >= l.End || source[off] != ':' {
		return nil, 0, false
	}
	off++
	for off < l.End && (source[off] == ' ' || source[off] == '\t') {
		off++
	}

	contentCol := int(off - l.Start)
	firstLine := lineSpan{Start: off, End: l.End}
	bodyLines := []lineSpan{firstLine}

	j := i + 1
	for j < len(lines) {
		if isBlank(source, lines[j]) {
			k := j
			for k < len(lines) && isBlank(source, lines[k]) {
				k++
			}
			if k < len(lines) {
				ci, _ := leadingIndent(source, lines[k])
				if ci >= contentCol {
					for b := j; b < k; b++ {
						bodyLines = append(bodyLines, lineSpan{Start: lines[b].End, End: lines[b].End})
					}
					j = k
					continue
				}
			}
			break
		}
		ci, _ := leadingIndent(source, lines[j])
		if ci < contentCol {
			break
		}
		bodyLines = append(bodyLines, dedentToColumn(source, lines[j], contentCol))
		j++
	}

	synthetic, omap := buildDedentedRegion(source, bodyLines, 0)
	synIdx := span.NewIndex([]byte(synthetic))
	synLines := splitLines([]byte(synthetic))
	children := parseRegion(ctx, []byte(synthetic), synIdx, synLines, depth+1)
	for _, c := range children {
		remapTree(c, omap, idx)
	}

	sp := span.Span{Start: idx.Position(l.Start), End: idx.Position(lines[j-1].End)}
	content := ast.NewNode(ast.KindFootnoteDefinition, sp)
	content.Label = label
	for _, c := range children {
		ast.AppendChild(content, c)
	}
	ctx.doc.AddFootnote(label, content)

	return nil, j - i, true
}
