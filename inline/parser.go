package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

type parser struct {
	ctx        *Context
	text       string
	idx        *span.Index
	baseOffset uint64
	n          int
}

func (p *parser) spanFor(start, end int) span.Span {
	return span.Span{
		Start: p.idx.Position(p.baseOffset + uint64(start)),
		End:   p.idx.Position(p.baseOffset + uint64(end)),
	}
}

// spanFromPositions builds a Span directly from two already-computed
// Positions, used when wrapping a delimiter range whose endpoints were
// computed by earlier scans rather than fresh offsets.
func spanFromPositions(start, end span.Position) span.Span {
	return span.Span{Start: start, End: end}
}

// delimiter is one entry in the emphasis delimiter stack.
type delimiter struct {
	node       *ast.Node // placeholder Text node carrying the run
	char       byte
	count      int
	origCount  int
	canOpen    bool
	canClose   bool
	start, end int
	active     bool
}

// parseInlines scans text[start:end] and returns the resulting inline
// children, resolving the emphasis/strong/strikethrough/highlight/sub/
// superscript delimiter stack at the end of the scan.
func (p *parser) parseInlines(start, end int) []*ast.Node {
	var nodes []*ast.Node
	var delims []*delimiter
	i := start

	flushText := func(s, e int) {
		if e <= s {
			return
		}
		nodes = p.scanAutolinkLiterals(nodes, s, e)
	}

	textStart := i
	for i < end {
		c := p.text[i]

		// GFM literal autolinks in their URL and protocol forms are matched
		// before delimiter runs, so a '_', '=' or '~' inside one does not
		// split it.
		if ((c == 'h' || c == 'w') && boundaryOk(p.text, i)) || c == 'm' || c == 'x' {
			if m, ok := matchGFMAutolinkAtStart(p.text[i:end]); ok && m.length > 0 {
				flushText(textStart, i)
				node := ast.NewNode(ast.KindAutolink, p.spanFor(i, i+m.length))
				node.Label = p.text[i : i+m.length]
				node.URL = m.href
				nodes = append(nodes, node)
				i += m.length
				textStart = i
				continue
			}
		}

		switch {
		case c == '\\':
			if i+1 < end && isEscapable(p.text[i+1]) {
				flushText(textStart, i)
				nodes = append(nodes, escapedNode(p, i))
				i += 2
				textStart = i
				continue
			}
			if i+1 < end && p.text[i+1] == '\n' {
				flushText(textStart, i)
				nodes = append(nodes, ast.NewNode(ast.KindLineBreak, p.spanFor(i, i+2)))
				nodeSetHard(nodes[len(nodes)-1])
				i += 2
				textStart = i
				continue
			}
		case c == '\n':
			flushText(textStart, i)
			hard := i >= 2 && p.text[i-1] == ' ' && p.text[i-2] == ' '
			brk := ast.NewNode(ast.KindLineBreak, p.spanFor(i, i+1))
			brk.Hard = hard
			nodes = append(nodes, brk)
			i++
			textStart = i
			continue
		case c == '`':
			if node, next, ok := scanCodeSpan(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '$':
			if node, next, ok := scanMathInline(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '<':
			if node, next, ok := scanAutolinkOrHTML(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '!' && i+1 < end && p.text[i+1] == '[':
			if node, next, ok := scanLinkOrImage(p, i, end, true); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '[':
			if node, next, ok := scanFootnoteRef(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
			if node, next, ok := scanLinkOrImage(p, i, end, false); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
			if node, next, ok := scanMarcoBracketExtension(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '^' && i+1 < end && p.text[i+1] == '[':
			if node, next, ok := scanInlineFootnote(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == '@':
			if node, next, ok := scanMarcoAt(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case c == ':':
			if node, next, ok := scanEmoji(p, i, end); ok {
				flushText(textStart, i)
				nodes = append(nodes, node)
				i = next
				textStart = i
				continue
			}
		case isDelimiterRune(c):
			flushText(textStart, i)
			_, next := scanDelimiterRun(p, i, end)
			canOpen, canClose := delimiterFlanking(p, i, next, end)
			for _, chunk := range splitDelimiterRun(c, i, next) {
				width := chunk.end - chunk.start
				placeholder := ast.NewText(p.text[chunk.start:chunk.end], p.spanFor(chunk.start, chunk.end))
				nodes = append(nodes, placeholder)
				delims = append(delims, &delimiter{
					node:      placeholder,
					char:      c,
					count:     width,
					origCount: width,
					canOpen:   canOpen,
					canClose:  canClose,
					start:     len(nodes) - 1,
					active:    true,
				})
			}
			i = next
			textStart = i
			continue
		}
		i++
	}
	flushText(textStart, end)

	return resolveDelimiters(p, nodes, delims)
}

func isDelimiterRune(c byte) bool {
	switch c {
	case '*', '_', '~', '=', '^':
		return true
	}
	return false
}

func isEscapable(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func escapedNode(p *parser, i int) *ast.Node {
	n := ast.NewNode(ast.KindEscaped, p.spanFor(i, i+2))
	n.Char = rune(p.text[i+1])
	return n
}

func nodeSetHard(n *ast.Node) { n.Hard = true }

// scanDelimiterRun consumes a maximal run of the same delimiter character
// starting at i (two-char runs for ~~ / == are only formed when the
// character repeats; single '~'/'^' outside a run become subscript/
// superscript delimiters of length 1).
func scanDelimiterRun(p *parser, i, end int) (count, next int) {
	c := p.text[i]
	j := i
	for j < end && p.text[j] == c {
		j++
	}
	return j - i, j
}

// delimiterChunk is one fixed-width slice of a longer delimiter run.
type delimiterChunk struct{ start, end int }

// splitDelimiterRun breaks a scanned run [start,end) of the same character
// into chunks the delimiter-stack resolver can pair on an exact-width
// basis: width-2 chunks for '*'/'_'/'~'/'=' (greedily, left to right, with a
// trailing width-1 chunk if the run is odd), width-1 chunks for '^' since
// superscript is never doubled.
func splitDelimiterRun(char byte, start, end int) []delimiterChunk {
	maxWidth := 2
	if char == '^' {
		maxWidth = 1
	}
	var chunks []delimiterChunk
	for i := start; i < end; {
		w := maxWidth
		if end-i < w {
			w = end - i
		}
		chunks = append(chunks, delimiterChunk{start: i, end: i + w})
		i += w
	}
	return chunks
}

// delimiterFlanking implements the CommonMark left/right-flanking rules
// generalized to Marco's extra delimiter characters.
func delimiterFlanking(p *parser, start, end, textEnd int) (canOpen, canClose bool) {
	before := ' '
	if start > 0 {
		before = decodeRuneBefore(p.text, start)
	}
	after := ' '
	if end < textEnd {
		after = decodeRuneAt(p.text, end)
	}
	beforeIsSpace := unicode.IsSpace(before)
	afterIsSpace := unicode.IsSpace(after)
	beforeIsPunct := isPunct(before)
	afterIsPunct := isPunct(after)

	leftFlank := !afterIsSpace && (!afterIsPunct || beforeIsSpace || beforeIsPunct)
	rightFlank := !beforeIsSpace && (!beforeIsPunct || afterIsSpace || afterIsPunct)

	c := p.text[start]
	if c == '_' {
		canOpen = leftFlank && (!rightFlank || beforeIsPunct)
		canClose = rightFlank && (!leftFlank || afterIsPunct)
		return
	}
	return leftFlank, rightFlank
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func decodeRuneBefore(s string, i int) rune {
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r
}

func decodeRuneAt(s string, i int) rune {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}
