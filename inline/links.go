package inline

import (
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// maxAltTextLength bounds the flattened alt text an Image node carries, per
// the engine's truncation-ceiling rule for degenerate input.
const maxAltTextLength = 4000

// scanLinkOrImage recognizes "[text](dest \"title\")" inline links/images
// and the reference forms "[text][label]" (full), "[text][]" (collapsed)
// and "[text]" (shortcut), per spec.md §4.D.4. A reference form that fails
// to resolve against the document's reference table, or a destination
// that fails validation, degrades to literal text: the function reports
// false and the caller falls back to treating '[' as plain text. A link
// whose text starts with "bookmark:" is not matched here, so that
// scanMarcoBracketExtension can read it as a bookmark.
func scanLinkOrImage(p *parser, i, end int, isImage bool) (*ast.Node, int, bool) {
	bracketStart := i
	if isImage {
		bracketStart = i + 1
	}
	if bracketStart >= end || p.text[bracketStart] != '[' {
		return nil, 0, false
	}
	textStart := bracketStart + 1
	closeBracket, ok := findBracketClose(p.text, textStart, end)
	if !ok {
		return nil, 0, false
	}
	if !isImage && strings.HasPrefix(p.text[textStart:closeBracket], "bookmark:") {
		return nil, 0, false
	}
	after := closeBracket + 1

	if after < end && p.text[after] == '(' {
		if url, title, next, ok := scanInlineDestTitle(p, after, end); ok {
			return p.buildLinkOrImage(isImage, i, textStart, closeBracket, "", url, title, next)
		}
	}
	if after < end && p.text[after] == '[' {
		labelClose, ok := findBracketClose(p.text, after+1, end)
		if ok {
			label := p.text[after+1 : labelClose]
			if label == "" {
				label = p.text[textStart:closeBracket]
			}
			if def, found := p.ctx.Doc.LookupReference(label); found {
				return p.buildLinkOrImage(isImage, i, textStart, closeBracket, label, def.URL, def.Title, labelClose+1)
			}
			return nil, 0, false
		}
	}
	label := p.text[textStart:closeBracket]
	if def, found := p.ctx.Doc.LookupReference(label); found {
		return p.buildLinkOrImage(isImage, i, textStart, closeBracket, label, def.URL, def.Title, after)
	}
	return nil, 0, false
}

func (p *parser) buildLinkOrImage(isImage bool, start, textStart, textEnd int, label, url, title string, next int) (*ast.Node, int, bool) {
	if !validLinkURL(url) {
		return nil, 0, false
	}
	inner := p.parseInlines(textStart, textEnd)
	if isImage {
		node := ast.NewNode(ast.KindImage, p.spanFor(start, next))
		node.URL = url
		node.Title = title
		node.Label = label
		node.Alt = truncateText(flattenAlt(inner), maxAltTextLength)
		return node, next, true
	}
	kind := ast.KindLink
	if label != "" {
		kind = ast.KindReferenceLink
	}
	node := ast.NewNode(kind, p.spanFor(start, next))
	node.URL = url
	node.Title = title
	node.Label = label
	for _, c := range inner {
		ast.AppendChild(node, c)
	}
	return node, next, true
}

func flattenAlt(nodes []*ast.Node) string {
	scratch := ast.NewNode(ast.KindParagraph, span.Span{})
	for _, n := range nodes {
		ast.AppendChild(scratch, n)
	}
	return ast.TextContent(scratch)
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// validLinkURL rejects destinations containing ASCII control characters;
// anything else is accepted here and escaped on render by the HTML
// renderer's own rules.
func validLinkURL(url string) bool {
	for i := 0; i < len(url); i++ {
		if c := url[i]; c < 0x20 && c != '\t' {
			return false
		}
	}
	return true
}

// findBracketClose finds the offset of the unescaped ']' matching the '['
// implicitly opened just before start, honoring nested brackets.
func findBracketClose(text string, start, end int) (int, bool) {
	depth := 0
	for i := start; i < end; i++ {
		switch text[i] {
		case '\\':
			if i+1 < end {
				i++
			}
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}

// scanInlineDestTitle parses "(dest \"title\")" starting at the '(' offset
// open, returning the destination, optional title, and the offset just
// past the closing ')'.
func scanInlineDestTitle(p *parser, open, end int) (url, title string, next int, ok bool) {
	text := p.text
	j := skipHTMLSpaceNL(text, open+1, end)
	if j < end && text[j] == ')' {
		return "", "", j + 1, true
	}
	destEnd, destVal, ok2 := scanDestination(text, j, end)
	if !ok2 {
		return "", "", 0, false
	}
	j = skipHTMLSpaceNL(text, destEnd, end)
	if j < end && text[j] == ')' {
		return destVal, "", j + 1, true
	}
	if j < end && isTitleQuote(text[j]) {
		t, tend, ok3 := scanInlineTitle(text, j, end)
		if !ok3 {
			return "", "", 0, false
		}
		j = skipHTMLSpaceNL(text, tend, end)
		if j < end && text[j] == ')' {
			return destVal, t, j + 1, true
		}
	}
	return "", "", 0, false
}

func isTitleQuote(b byte) bool { return b == '"' || b == '\'' || b == '(' }

func scanDestination(text string, start, end int) (int, string, bool) {
	if start < end && text[start] == '<' {
		i := start + 1
		for i < end {
			if text[i] == '\\' && i+1 < end {
				i += 2
				continue
			}
			if text[i] == '>' {
				return i + 1, text[start+1 : i], true
			}
			if text[i] == '<' || text[i] == '\n' {
				return 0, "", false
			}
			i++
		}
		return 0, "", false
	}
	depth := 0
	i := start
	for i < end {
		c := text[i]
		if c == '\\' && i+1 < end {
			i += 2
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' {
			break
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			if depth == 0 {
				break
			}
			depth--
		}
		i++
	}
	if i == start {
		return 0, "", false
	}
	return i, text[start:i], true
}

func scanInlineTitle(text string, start, end int) (string, int, bool) {
	open := text[start]
	closer := byte('"')
	switch open {
	case '\'':
		closer = '\''
	case '(':
		closer = ')'
	}
	var sb strings.Builder
	i := start + 1
	for i < end {
		c := text[i]
		if c == '\\' && i+1 < end {
			sb.WriteByte(c)
			sb.WriteByte(text[i+1])
			i += 2
			continue
		}
		if c == closer {
			return sb.String(), i + 1, true
		}
		sb.WriteByte(c)
		i++
	}
	return "", 0, false
}
