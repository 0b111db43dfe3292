package blockparser

import (
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// recognizeReferenceDefinition consumes a link reference definition
// ("[label]: url \"title\""), possibly spanning the url/title onto
// following lines, and registers it into the document's reference table.
// It also returns a ReferenceDefinition node spanning the definition's
// source lines, which the renderer emits as nothing. A "[^label]:" line is
// left to recognizeFootnoteDefinition.
func recognizeReferenceDefinition(ctx *blockContext, source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	l := lines[i]
	_, contentStart := leadingIndent(source, l)
	if contentStart >= l.End || source[contentStart] != '[' {
		return nil, 0, false
	}

	closeOff, ok := findUnescapedBracketClose(source, contentStart+1, l.End)
	if !ok {
		return nil, 0, false
	}
	label := string(source[contentStart+1 : closeOff])
	if strings.TrimSpace(label) == "" || strings.HasPrefix(label, "^") {
		return nil, 0, false
	}
	colonOff := closeOff + 1
	if colonOff >= l.End || source[colonOff] != ':' {
		return nil, 0, false
	}

	rest := colonOff + 1
	for rest < l.End && (source[rest] == ' ' || source[rest] == '\t') {
		rest++
	}

	urlLineIdx := i
	urlStart := rest
	var urlEnd uint64
	if rest >= l.End {
		// URL on the following line.
		if i+1 >= len(lines) || isBlank(source, lines[i+1]) {
			return nil, 0, false
		}
		urlLineIdx = i + 1
		_, urlStart = leadingIndent(source, lines[urlLineIdx])
		urlEnd = scanLinkDestination(source, urlStart, lines[urlLineIdx].End)
	} else {
		urlEnd = scanLinkDestination(source, urlStart, l.End)
	}
	if urlEnd == urlStart {
		return nil, 0, false
	}
	url := string(source[urlStart:urlEnd])

	lastConsumed := urlLineIdx
	title := ""

	// Title may follow on the same line as the URL, or on subsequent
	// line(s), up to the first blank line.
	titleLineIdx := urlLineIdx
	titleOff := urlEnd
	for titleOff < lines[titleLineIdx].End && (source[titleOff] == ' ' || source[titleOff] == '\t') {
		titleOff++
	}
	if titleOff >= lines[titleLineIdx].End && titleLineIdx+1 < len(lines) && !isBlank(source, lines[titleLineIdx+1]) {
		next := titleLineIdx + 1
		_, nstart := leadingIndent(source, lines[next])
		if nstart < lines[next].End && isTitleOpener(source[nstart]) {
			titleLineIdx = next
			titleOff = nstart
		}
	}
	if titleOff < lines[titleLineIdx].End && isTitleOpener(source[titleOff]) {
		if t, end, tline, ok2 := scanTitle(source, lines, titleLineIdx, titleOff); ok2 {
			// A title is only valid if nothing but whitespace follows it
			// on its closing line.
			trailing := trimTrailingSpace(source, lineSpan{Start: end, End: lines[tline].End})
			if trailing == end {
				title = t
				lastConsumed = tline
			}
		}
	}

	sp := span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[lastConsumed].End)}
	ctx.doc.AddReference(ast.ReferenceDefinition{Label: label, URL: url, Title: title})
	node := ast.NewNode(ast.KindReferenceDefinition, sp)
	node.Label = label
	node.URL = url
	node.Title = title
	return node, lastConsumed - i + 1, true
}

func isTitleOpener(b byte) bool { return b == '"' || b == '\'' || b == '(' }

func titleCloser(open byte) byte {
	switch open {
	case '(':
		return ')'
	default:
		return open
	}
}

func scanTitle(source []byte, lines []lineSpan, startLine int, startOff uint64) (title string, endOff uint64, endLine int, ok bool) {
	open := source[startOff]
	closer := titleCloser(open)
	var sb strings.Builder
	li := startLine
	off := startOff + 1
	for li < len(lines) {
		l := lines[li]
		for off < l.End {
			if source[off] == '\\' && off+1 < l.End {
				sb.WriteByte(source[off])
				sb.WriteByte(source[off+1])
				off += 2
				continue
			}
			if source[off] == closer {
				return sb.String(), off + 1, li, true
			}
			sb.WriteByte(source[off])
			off++
		}
		if li+1 >= len(lines) || isBlank(source, lines[li+1]) {
			return "", 0, 0, false
		}
		sb.WriteByte('\n')
		li++
		off = lines[li].Start
	}
	return "", 0, 0, false
}

func findUnescapedBracketClose(source []byte, start, end uint64) (uint64, bool) {
	depth := 0
	for off := start; off < end; off++ {
		b := source[off]
		if b == '\\' && off+1 < end {
			off++
			continue
		}
		if b == '[' {
			depth++
			continue
		}
		if b == ']' {
			if depth == 0 {
				return off, true
			}
			depth--
		}
	}
	return 0, false
}

// scanLinkDestination scans a link destination starting at off: either an
// angle-bracket-delimited form "<...>" or a bare sequence of non-whitespace
// characters with balanced parentheses.
func scanLinkDestination(source []byte, off, end uint64) uint64 {
	if off >= end {
		return off
	}
	if source[off] == '<' {
		i := off + 1
		for i < end {
			if source[i] == '\\' && i+1 < end {
				i += 2
				continue
			}
			if source[i] == '>' {
				return i + 1
			}
			if source[i] == '<' {
				return off
			}
			i++
		}
		return off
	}
	depth := 0
	i := off
	for i < end {
		b := source[i]
		if b == '\\' && i+1 < end {
			i += 2
			continue
		}
		if b == ' ' || b == '\t' {
			break
		}
		if b == '(' {
			depth++
		} else if b == ')' {
			if depth == 0 {
				break
			}
			depth--
		}
		i++
	}
	return i
}
