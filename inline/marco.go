package inline

import (
	"strings"

	"github.com/ranrar/marco/ast"
)

// scanMarcoBracketExtension recognizes the bracket-shaped Marco extensions
// that are not links/images: "[toc]", "[toc=depth]" (a table-of-contents
// placeholder) and "[bookmark:label](path[=line])" (a named source
// location), per spec.md §4.D.8. Called only after scanLinkOrImage has
// already failed to match the same '['.
func scanMarcoBracketExtension(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	if i >= end || text[i] != '[' {
		return nil, 0, false
	}
	closeBracket, ok := findBracketClose(text, i+1, end)
	if !ok {
		return nil, 0, false
	}
	inner := text[i+1 : closeBracket]
	next := closeBracket + 1

	if inner == "toc" {
		return ast.NewNode(ast.KindToc, p.spanFor(i, next)), next, true
	}
	if strings.HasPrefix(inner, "toc=") {
		depth, ok := parseUintPtr(inner[len("toc="):])
		if !ok {
			return nil, 0, false
		}
		node := ast.NewNode(ast.KindToc, p.spanFor(i, next))
		node.Depth = depth
		return node, next, true
	}
	if strings.HasPrefix(inner, "bookmark:") {
		label := inner[len("bookmark:"):]
		if label == "" || next >= end || text[next] != '(' {
			return nil, 0, false
		}
		closeParen := strings.IndexByte(text[next+1:end], ')')
		if closeParen < 0 {
			return nil, 0, false
		}
		body := text[next+1 : next+1+closeParen]
		final := next + 1 + closeParen + 1
		path := body
		var line *uint32
		if eq := strings.LastIndexByte(body, '='); eq >= 0 {
			if n, ok := parseUintPtr(body[eq+1:]); ok {
				path = body[:eq]
				line = n
			}
		}
		node := ast.NewNode(ast.KindBookmark, p.spanFor(i, final))
		node.Label = label
		node.Path = path
		node.Line = line
		return node, final, true
	}
	return nil, 0, false
}

func parseUintPtr(s string) (*uint32, bool) {
	if s == "" {
		return nil, false
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		n = n*10 + uint32(c-'0')
	}
	return &n, true
}

// scanMarcoAt recognizes "@run(lang)(command)" and "@username
// [platform](display name)", Marco's two '@'-triggered extensions, per
// spec.md §4.D.8.
func scanMarcoAt(p *parser, i, end int) (*ast.Node, int, bool) {
	if strings.HasPrefix(p.text[i:end], "@run(") {
		return scanRunInline(p, i, end)
	}
	return scanUserMention(p, i, end)
}

func scanRunInline(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	j := i + len("@run(")
	langEnd := strings.IndexByte(text[j:end], ')')
	if langEnd < 0 {
		return nil, 0, false
	}
	lang := text[j : j+langEnd]
	j += langEnd + 1
	if j >= end || text[j] != '(' {
		return nil, 0, false
	}
	j++
	cmdEnd := strings.IndexByte(text[j:end], ')')
	if cmdEnd < 0 {
		return nil, 0, false
	}
	command := text[j : j+cmdEnd]
	next := j + cmdEnd + 1
	node := ast.NewNode(ast.KindRunInline, p.spanFor(i, next))
	node.ScriptType = lang
	node.Command = command
	return node, next, true
}

func scanUserMention(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	// An '@' directly after an email local-part character belongs to an
	// email address, which the autolink scan handles.
	if i > 0 && isEmailLocalChar(text[i-1]) {
		return nil, 0, false
	}
	j := i + 1
	start := j
	for j < end && isUsernameChar(text[j]) {
		j++
	}
	if j == start {
		return nil, 0, false
	}
	username := text[start:j]
	next := j
	node := ast.NewNode(ast.KindUserMention, p.spanFor(i, next))
	node.Username = username

	if j < end && text[j] == ' ' && j+1 < end && text[j+1] == '[' {
		closeBr, ok := findBracketClose(text, j+2, end)
		if ok {
			platform := text[j+2 : closeBr]
			after := closeBr + 1
			if after < end && text[after] == '(' {
				closeParen := strings.IndexByte(text[after+1:end], ')')
				if closeParen >= 0 {
					display := text[after+1 : after+1+closeParen]
					final := after + 1 + closeParen + 1
					node.Platform = platform
					node.DisplayName = display
					node.SetSpan(p.spanFor(i, final))
					return node, final, true
				}
			}
		}
	}
	return node, next, true
}

func isUsernameChar(b byte) bool {
	return isAlnum(b) || b == '_' || b == '-'
}

// scanEmoji recognizes a ":shortcode:" emoji reference, per spec.md §4.D.7.
func scanEmoji(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	j := i + 1
	start := j
	for j < end && isEmojiNameChar(text[j]) {
		j++
	}
	if j == start || j >= end || text[j] != ':' {
		return nil, 0, false
	}
	name := text[start:j]
	next := j + 1
	node := ast.NewNode(ast.KindEmoji, p.spanFor(i, next))
	node.Name = name
	node.Shortcode = true
	return node, next, true
}

func isEmojiNameChar(b byte) bool {
	return isAlnum(b) || b == '_' || b == '+' || b == '-'
}
