package blockparser

import (
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// isFencedCodeOpen reports whether l opens a fenced code block (used by
// startsNewBlock so a fence can interrupt an in-progress paragraph).
func isFencedCodeOpen(source []byte, l lineSpan) bool {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return false
	}
	if contentStart >= l.End {
		return false
	}
	marker := source[contentStart]
	if marker != '`' && marker != '~' {
		return false
	}
	count := 0
	off := contentStart
	for off < l.End && source[off] == marker {
		count++
		off++
	}
	return count >= 3
}

// recognizeFencedCode consumes a fenced code block starting at lines[i],
// including its info string and closing fence (or end of region, if
// unterminated).
func recognizeFencedCode(source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	l := lines[i]
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 || contentStart >= l.End {
		return nil, 0, false
	}
	marker := source[contentStart]
	if marker != '`' && marker != '~' {
		return nil, 0, false
	}
	fenceLen := 0
	off := contentStart
	for off < l.End && source[off] == marker {
		fenceLen++
		off++
	}
	if fenceLen < 3 {
		return nil, 0, false
	}
	infoEnd := trimTrailingSpace(source, lineSpan{Start: off, End: l.End})
	info := strings.TrimSpace(string(source[off:infoEnd]))
	if marker == '`' && strings.ContainsRune(info, '`') {
		return nil, 0, false
	}

	language := info
	if sp := strings.IndexAny(info, " \t"); sp >= 0 {
		language = info[:sp]
	}

	j := i + 1
	var contentLines []lineSpan
	for j < len(lines) {
		cl := lines[j]
		cIndent, cStart := leadingIndent(source, cl)
		if cIndent <= 3 {
			k := cStart
			cc := 0
			for k < cl.End && source[k] == marker {
				cc++
				k++
			}
			if cc >= fenceLen && trimTrailingSpace(source, lineSpan{Start: k, End: cl.End}) == k {
				j++
				break
			}
		}
		contentLines = append(contentLines, stripIndentUpToSource(source, cl, indent))
		j++
	}

	var content strings.Builder
	for k, cl := range contentLines {
		content.Write(lineText(source, cl))
		if k < len(contentLines)-1 {
			content.WriteByte('\n')
		}
	}
	if len(contentLines) > 0 {
		content.WriteByte('\n')
	}

	endLineIdx := j - 1
	sp := span.Span{Start: idx.Position(l.Start), End: idx.Position(lines[endLineIdx].End)}
	node := ast.NewCodeBlock(language, info, content.String(), true, sp)
	return node, j - i, true
}

// stripIndentUpToSource removes up to `columns` of leading indentation from a
// content line of a fenced code block, per CommonMark's fence-indentation
// rule; it does not need offset remapping because fenced code content spans
// collapse to a single Literal string, not a nested tree.
func stripIndentUpToSource(source []byte, l lineSpan, columns int) lineSpan {
	if columns <= 0 {
		return l
	}
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

// recognizeIndentedCode consumes a run of lines indented >= 4 columns, not
// interrupting a paragraph (callers only try this after every other
// recognizer, and never from startsNewBlock).
func recognizeIndentedCode(source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	l := lines[i]
	indent, _ := leadingIndent(source, l)
	if indent < 4 || isBlank(source, l) {
		return nil, 0, false
	}
	j := i
	var contentLines []lineSpan
	lastNonBlank := i
	for j < len(lines) {
		cl := lines[j]
		if isBlank(source, cl) {
			contentLines = append(contentLines, lineSpan{Start: cl.End, End: cl.End})
			j++
			continue
		}
		cIndent, _ := leadingIndent(source, cl)
		if cIndent < 4 {
			break
		}
		contentLines = append(contentLines, dedentIndentedLine(source, cl))
		lastNonBlank = j
		j++
	}
	contentLines = contentLines[:lastNonBlank-i+1]
	j = lastNonBlank + 1

	var content strings.Builder
	for k, cl := range contentLines {
		content.Write(lineText(source, cl))
		if k < len(contentLines)-1 {
			content.WriteByte('\n')
		}
	}
	content.WriteByte('\n')

	sp := span.Span{Start: idx.Position(l.Start), End: idx.Position(lines[lastNonBlank].End)}
	node := ast.NewCodeBlock("", "", content.String(), false, sp)
	return node, j - i, true
}

func dedentIndentedLine(source []byte, l lineSpan) lineSpan {
	col := 0
	i := l.Start
	for i < l.End && col < 4 {
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
