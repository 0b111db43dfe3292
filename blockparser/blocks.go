package blockparser

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/inline"
	"github.com/ranrar/marco/span"
)

// parseRegion is the orchestrator for one contiguous run of block-level
// content: the whole document at the top level, a blockquote's stripped
// content, an admonition's body, or (via remapping) a list item's dedented
// content. `lines` indexes into `source`/`idx`; lines need not be
// physically contiguous in `source` (blockquote stripping shifts each
// line's start past its `>` marker without copying bytes).
func parseRegion(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, depth int) []*ast.Node {
	var out []*ast.Node
	if ctx.blockDepthExceeded(depth) {
		ctx.bag.Warn("maximum block nesting depth exceeded; remaining content emitted as text", spanOfLines(idx, lines), "depth_limit")
		if len(lines) > 0 {
			out = append(out, buildRawTextParagraph(source, idx, lines))
		}
		return out
	}

	i := 0
	for i < len(lines) {
		if isBlank(source, lines[i]) {
			i++
			continue
		}

		if node, consumed, ok := recognizeThematicBreak(source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeATXHeading(ctx, source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeAdmonition(ctx, source, idx, lines, i, depth); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeFencedCode(source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeHTMLBlock(source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeBlockQuote(ctx, source, idx, lines, i, depth); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeList(ctx, source, idx, lines, i, depth); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeReferenceDefinition(ctx, source, idx, lines, i); ok {
			if node != nil {
				out = append(out, node)
			}
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeFootnoteDefinition(ctx, source, idx, lines, i, depth); ok {
			if node != nil {
				out = append(out, node)
			}
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeTable(ctx, source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}
		if node, consumed, ok := recognizeIndentedCode(source, idx, lines, i); ok {
			out = append(out, node)
			i += consumed
			continue
		}

		if looksLikeFailedATXHeading(source, lines[i]) {
			noteFallback(ctx.bag, "atx_heading", spanOfLines(idx, lines[i:i+1]))
		} else if looksLikeFailedTable(source, lines, i) {
			noteFallback(ctx.bag, "table", spanOfLines(idx, lines[i:i+1]))
		}

		node, consumed := recognizeParagraph(ctx, source, idx, lines, i)
		out = append(out, node)
		i += consumed
	}
	return out
}

func spanOfLines(idx *span.Index, lines []lineSpan) span.Span {
	if len(lines) == 0 {
		return span.Span{}
	}
	return span.Span{Start: idx.Position(lines[0].Start), End: idx.Position(lines[len(lines)-1].End)}
}

func buildRawTextParagraph(source []byte, idx *span.Index, lines []lineSpan) *ast.Node {
	sp := spanOfLines(idx, lines)
	n := ast.NewNode(ast.KindParagraph, sp)
	ast.AppendChild(n, ast.NewText(string(sp.Value(source)), sp))
	return n
}

// startsNewBlock reports whether the line at lines[i] begins a block
// construct other than a paragraph continuation, used by the paragraph
// recognizer to decide whether to stop absorbing lazy-continuation lines.
// Indented code cannot interrupt a paragraph (CommonMark), so it is
// deliberately excluded here.
func startsNewBlock(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int) bool {
	if _, _, ok := recognizeThematicBreak(source, idx, lines, i); ok {
		return true
	}
	if _, _, ok := recognizeATXHeading(ctx, source, idx, lines, i); ok {
		return true
	}
	if isAdmonitionFence(source, lines[i]) {
		return true
	}
	if isFencedCodeOpen(source, lines[i]) {
		return true
	}
	if isBlockQuoteMarker(source, lines[i]) {
		return true
	}
	if _, _, _, ok := parseListMarker(source, lines[i]); ok {
		return true
	}
	if htmlBlockOpenKind(source, lines[i]) >= 1 && htmlBlockOpenKind(source, lines[i]) <= 6 {
		return true
	}
	if isFootnoteDefOpen(source, lines[i]) {
		return true
	}
	return false
}

// ---- Thematic break ----

func recognizeThematicBreak(source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	l := lines[i]
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return nil, 0, false
	}
	var marker byte
	count := 0
	for off := contentStart; off < l.End; off++ {
		b := source[off]
		if b == ' ' || b == '\t' {
			continue
		}
		if b != '-' && b != '_' && b != '*' {
			return nil, 0, false
		}
		if marker == 0 {
			marker = b
		} else if b != marker {
			return nil, 0, false
		}
		count++
	}
	if count < 3 {
		return nil, 0, false
	}
	sp := span.Span{Start: idx.Position(l.Start), End: idx.Position(l.End)}
	return ast.NewNode(ast.KindThematicBreak, sp), 1, true
}

// ---- ATX heading ----

func recognizeATXHeading(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	l := lines[i]
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return nil, 0, false
	}
	off := contentStart
	level := 0
	for off < l.End && source[off] == '#' {
		level++
		off++
	}
	if level < 1 || level > 6 {
		return nil, 0, false
	}
	if off < l.End && source[off] != ' ' && source[off] != '\t' {
		return nil, 0, false
	}
	for off < l.End && (source[off] == ' ' || source[off] == '\t') {
		off++
	}
	end := trimTrailingSpace(source, lineSpan{Start: off, End: l.End})
	// Strip a closing sequence of '#'s, per CommonMark (optional, must be
	// preceded by a space and followed only by spaces).
	closeEnd := end
	for closeEnd > off && source[closeEnd-1] == '#' {
		closeEnd--
	}
	if closeEnd < end && (closeEnd == off || source[closeEnd-1] == ' ' || source[closeEnd-1] == '\t') {
		end = trimTrailingSpace(source, lineSpan{Start: off, End: closeEnd})
	}

	sp := span.Span{Start: idx.Position(l.Start), End: idx.Position(l.End)}
	node := ast.NewHeading(level, sp)
	if end > off && ctx != nil {
		inlineCtx := &inline.Context{Doc: ctx.doc, Bag: ctx.bag}
		for _, c := range inline.ParseLeaf(inlineCtx, string(source[off:end]), idx, off) {
			ast.AppendChild(node, c)
		}
	}
	return node, 1, true
}

// ---- Paragraph (+ setext heading detection) ----

func recognizeParagraph(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int) {
	start := i
	j := i + 1
	for j < len(lines) {
		if isBlank(source, lines[j]) {
			break
		}
		if isSetextUnderline(source, lines[j]) {
			break
		}
		if startsNewBlock(nil, source, idx, lines, j) {
			break
		}
		j++
	}

	// Setext heading: the line at j (if any) underlines the paragraph.
	if j < len(lines) && isSetextUnderline(source, lines[j]) {
		level := 1
		_, contentStart := leadingIndent(source, lines[j])
		if source[contentStart] == '-' {
			level = 2
		}
		sp := span.Span{Start: idx.Position(lines[start].Start), End: idx.Position(lines[j].End)}
		node := ast.NewHeading(level, sp)
		attachInlineText(ctx, node, source, idx, lines[start:j])
		return node, (j + 1) - start
	}

	sp := span.Span{Start: idx.Position(lines[start].Start), End: idx.Position(lines[j-1].End)}
	node := ast.NewNode(ast.KindParagraph, sp)
	attachInlineText(ctx, node, source, idx, lines[start:j])
	return node, j - start
}

// attachInlineText joins the text-bearing lines underlying a leaf node
// (trimming trailing whitespace per physical line, exactly as joinLines
// does), runs the inline parser over the joined text, and attaches the
// resulting children with their spans remapped back to original-source
// coordinates. ctx is nil only when called from a discard-the-result
// interrupt-detection probe, in which case no children are attached.
func attachInlineText(ctx *blockContext, node *ast.Node, source []byte, idx *span.Index, lines []lineSpan) {
	if ctx == nil || len(lines) == 0 {
		return
	}
	synthetic, omap := buildTrimmedRegion(source, lines)
	if synthetic == "" {
		return
	}
	synIdx := span.NewIndex([]byte(synthetic))
	inlineCtx := &inline.Context{Doc: ctx.doc, Bag: ctx.bag}
	for _, c := range inline.ParseLeaf(inlineCtx, synthetic, synIdx, 0) {
		remapTree(c, omap, idx)
		ast.AppendChild(node, c)
	}
}

// isSetextUnderline reports whether l is a line of only '=' or only '-'
// characters (with up to 3 leading spaces and arbitrary trailing spaces).
// A lone "---" with no preceding paragraph content is handled by the
// caller precedence order: recognizeThematicBreak runs before a paragraph
// is ever started, so an underline-only line at the top of a region
// becomes a ThematicBreak, matching spec.md's documented tie-break.
func isSetextUnderline(source []byte, l lineSpan) bool {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 || contentStart >= l.End {
		return false
	}
	var marker byte
	for off := contentStart; off < l.End; off++ {
		b := source[off]
		if b == ' ' || b == '\t' {
			for k := off; k < l.End; k++ {
				if source[k] != ' ' && source[k] != '\t' {
					return false
				}
			}
			break
		}
		if b != '=' && b != '-' {
			return false
		}
		if marker == 0 {
			marker = b
		} else if b != marker {
			return false
		}
	}
	return marker != 0
}
