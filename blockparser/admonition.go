package blockparser

import (
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// isAdmonitionFence reports whether l opens a Marco admonition block
// (":::kind" with at least three colons).
func isAdmonitionFence(source []byte, l lineSpan) bool {
	_, kind, ok := parseAdmonitionOpen(source, l)
	return ok && kind != ""
}

func parseAdmonitionOpen(source []byte, l lineSpan) (fenceLen int, kind string, ok bool) {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return 0, "", false
	}
	off := contentStart
	n := 0
	for off < l.End && source[off] == ':' {
		n++
		off++
	}
	if n < 3 {
		return 0, "", false
	}
	rest := strings.TrimSpace(string(source[off:l.End]))
	if rest == "" {
		return 0, "", false
	}
	return n, rest, true
}

func isAdmonitionClose(source []byte, l lineSpan, fenceLen int) bool {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return false
	}
	off := contentStart
	n := 0
	for off < l.End && source[off] == ':' {
		n++
		off++
	}
	if n < fenceLen {
		return false
	}
	return trimTrailingSpace(source, lineSpan{Start: off, End: l.End}) == off
}

// recognizeAdmonition consumes a ":::kind ... :::" admonition block,
// recursively reparsing its body as a nested region (depth-limited
// separately from general block depth, per the admonition ceiling).
func recognizeAdmonition(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int, depth int) (*ast.Node, int, bool) {
	fenceLen, kind, ok := parseAdmonitionOpen(source, lines[i])
	if !ok {
		return nil, 0, false
	}
	if ctx.admonitionDepthExceeded(depth) {
		ctx.bag.Warn("maximum admonition nesting depth exceeded", spanOfLines(idx, lines[i:]), "admonition_depth")
		return nil, 0, false
	}

	j := i + 1
	var inner []lineSpan
	for j < len(lines) {
		if isAdmonitionClose(source, lines[j], fenceLen) {
			j++
			break
		}
		inner = append(inner, lines[j])
		j++
	}

	endLine := j - 1
	if endLine < i {
		endLine = i
	}
	sp := span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[endLine].End)}
	node := ast.NewNode(ast.KindAdmonition, sp)
	node.AdmonitionKind = kind
	children := parseRegion(ctx, source, idx, inner, depth+1)
	for _, c := range children {
		ast.AppendChild(node, c)
	}
	return node, j - i, true
}
