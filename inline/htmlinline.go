package inline

import (
	"strings"

	"github.com/ranrar/marco/ast"
)

// scanAutolinkOrHTML handles every inline construct that can start with
// '<': raw HTML (comments, processing instructions, declarations, CDATA,
// open/close tags) and CommonMark angle-bracket autolinks (scheme: form
// and bare email form), per spec.md §4.D.5/§4.D.6.
func scanAutolinkOrHTML(p *parser, i, end int) (*ast.Node, int, bool) {
	if node, next, ok := scanHTMLComment(p, i, end); ok {
		return node, next, ok
	}
	if node, next, ok := scanProcessingInstruction(p, i, end); ok {
		return node, next, ok
	}
	if node, next, ok := scanCDATA(p, i, end); ok {
		return node, next, ok
	}
	if node, next, ok := scanDeclaration(p, i, end); ok {
		return node, next, ok
	}
	if node, next, ok := scanAngleAutolink(p, i, end); ok {
		return node, next, ok
	}
	if node, next, ok := scanHTMLTag(p, i, end); ok {
		return node, next, ok
	}
	return nil, 0, false
}

func scanHTMLComment(p *parser, i, end int) (*ast.Node, int, bool) {
	if !strings.HasPrefix(p.text[i:end], "<!--") {
		return nil, 0, false
	}
	closeIdx := strings.Index(p.text[i+4:end], "-->")
	if closeIdx < 0 {
		return nil, 0, false
	}
	body := p.text[i+4 : i+4+closeIdx]
	if strings.HasPrefix(body, ">") || strings.HasPrefix(body, "->") || strings.Contains(body, "--") || strings.HasSuffix(body, "-") {
		return nil, 0, false
	}
	next := i + 4 + closeIdx + 3
	return htmlInlineNode(p, i, next), next, true
}

func scanProcessingInstruction(p *parser, i, end int) (*ast.Node, int, bool) {
	if !strings.HasPrefix(p.text[i:end], "<?") {
		return nil, 0, false
	}
	closeIdx := strings.Index(p.text[i+2:end], "?>")
	if closeIdx < 0 {
		return nil, 0, false
	}
	next := i + 2 + closeIdx + 2
	return htmlInlineNode(p, i, next), next, true
}

func scanCDATA(p *parser, i, end int) (*ast.Node, int, bool) {
	if !strings.HasPrefix(p.text[i:end], "<![CDATA[") {
		return nil, 0, false
	}
	closeIdx := strings.Index(p.text[i+9:end], "]]>")
	if closeIdx < 0 {
		return nil, 0, false
	}
	next := i + 9 + closeIdx + 3
	return htmlInlineNode(p, i, next), next, true
}

func scanDeclaration(p *parser, i, end int) (*ast.Node, int, bool) {
	if i+2 >= end || p.text[i+1] != '!' || !isASCIILetter(p.text[i+2]) {
		return nil, 0, false
	}
	j := i + 2
	for j < end && p.text[j] != '>' {
		j++
	}
	if j >= end {
		return nil, 0, false
	}
	next := j + 1
	return htmlInlineNode(p, i, next), next, true
}

func htmlInlineNode(p *parser, start, next int) *ast.Node {
	node := ast.NewNode(ast.KindHTMLInline, p.spanFor(start, next))
	node.Literal = p.text[start:next]
	return node
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// scanAngleAutolink recognizes CommonMark's "<scheme:destination>" and
// "<local@domain>" forms.
func scanAngleAutolink(p *parser, i, end int) (*ast.Node, int, bool) {
	j := i + 1
	closeIdx := strings.IndexByte(p.text[j:end], '>')
	if closeIdx < 0 {
		return nil, 0, false
	}
	body := p.text[j : j+closeIdx]
	next := j + closeIdx + 1
	if body == "" || strings.ContainsAny(body, " \t\n<") {
		return nil, 0, false
	}
	if isURIAutolinkBody(body) {
		node := ast.NewNode(ast.KindAutolink, p.spanFor(i, next))
		node.Label = body
		node.URL = body
		return node, next, true
	}
	if isEmailAutolinkBody(body) {
		node := ast.NewNode(ast.KindAutolink, p.spanFor(i, next))
		node.Label = body
		node.URL = "mailto:" + body
		return node, next, true
	}
	return nil, 0, false
}

func isURIAutolinkBody(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 2 || colon > 32 {
		return false
	}
	scheme := s[:colon]
	if !isASCIILetter(scheme[0]) {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if !isASCIILetter(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isEmailAutolinkBody(s string) bool {
	at := strings.IndexByte(s, '@')
	if at < 1 {
		return false
	}
	local := s[:at]
	domain := s[at+1:]
	for i := 0; i < len(local); i++ {
		c := local[i]
		if !isAlnum(c) && strings.IndexByte(".!#$%&'*+/=?^_`{|}~-", c) < 0 {
			return false
		}
	}
	n, ok := parseEmailDomain(domain)
	return ok && n == len(domain)
}

// scanHTMLTag recognizes a bare HTML open or close tag, per the CommonMark
// inline-HTML tag grammar (unquoted/quoted attribute values, optional
// self-closing slash).
func scanHTMLTag(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	j := i + 1
	closing := false
	if j < end && text[j] == '/' {
		closing = true
		j++
	}
	if j >= end || !isASCIILetter(text[j]) {
		return nil, 0, false
	}
	for j < end && isTagNameChar(text[j]) {
		j++
	}
	if closing {
		j = skipHTMLSpaceNL(text, j, end)
		if j >= end || text[j] != '>' {
			return nil, 0, false
		}
		next := j + 1
		return htmlInlineNode(p, i, next), next, true
	}
	for {
		before := j
		j = skipHTMLSpaceNL(text, j, end)
		if j < end && text[j] == '/' && j+1 < end && text[j+1] == '>' {
			next := j + 2
			return htmlInlineNode(p, i, next), next, true
		}
		if j < end && text[j] == '>' {
			next := j + 1
			return htmlInlineNode(p, i, next), next, true
		}
		if j == before || j >= end {
			return nil, 0, false
		}
		attrStart := j
		for j < end && isAttrNameChar(text[j]) {
			j++
		}
		if j == attrStart {
			return nil, 0, false
		}
		j = skipHTMLSpaceNL(text, j, end)
		if j < end && text[j] == '=' {
			j++
			j = skipHTMLSpaceNL(text, j, end)
			if j >= end {
				return nil, 0, false
			}
			switch text[j] {
			case '"', '\'':
				quote := text[j]
				j++
				closeIdx := strings.IndexByte(text[j:end], quote)
				if closeIdx < 0 {
					return nil, 0, false
				}
				j += closeIdx + 1
			default:
				vstart := j
				for j < end && !isHTMLSpace(text[j]) && text[j] != '>' {
					j++
				}
				if j == vstart {
					return nil, 0, false
				}
			}
		}
	}
}

func isTagNameChar(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') || b == '-'
}

func isAttrNameChar(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') || b == '-' || b == '_' || b == ':' || b == '.'
}

func isHTMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

func skipHTMLSpaceNL(text string, i, end int) int {
	for i < end && isHTMLSpace(text[i]) {
		i++
	}
	return i
}
