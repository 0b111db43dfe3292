package inline

import (
	"strings"

	"github.com/ranrar/marco/ast"
)

// This file ports the GFM autolink-literal matching algorithm from
// original_source/core/src/parser/inlines/gfm_autolink_literal_parser.rs:
// www./http(s)://, bare email, mailto: and xmpp: forms, recognized in
// running text without requiring angle brackets, per spec.md §4.D.5.

// gfmAutolinkMatch describes a literal autolink recognized starting at some
// position in the scanned text.
type gfmAutolinkMatch struct {
	length int
	href   string
}

// matchGFMAutolinkAtStart tries every literal form against s, a suffix of
// the leaf text starting at the candidate position. Protocol forms
// (mailto:, xmpp:) are tried before bare URL/www/email forms, mirroring the
// Rust parser's dispatch order.
func matchGFMAutolinkAtStart(s string) (gfmAutolinkMatch, bool) {
	if m, ok := matchMailto(s); ok {
		return m, true
	}
	if m, ok := matchXMPP(s); ok {
		return m, true
	}
	if m, ok := matchURL(s); ok {
		return m, true
	}
	if m, ok := matchWWW(s); ok {
		return m, true
	}
	if m, ok := matchEmail(s); ok {
		return m, true
	}
	return gfmAutolinkMatch{}, false
}

func matchWWW(s string) (gfmAutolinkMatch, bool) {
	if !strings.HasPrefix(s, "www.") {
		return gfmAutolinkMatch{}, false
	}
	domainLen, ok := parseDomain(s[4:], false)
	if !ok {
		return gfmAutolinkMatch{}, false
	}
	pathEnd := scanNonspace(s, 4+domainLen)
	finalLen := applyExtendedPathValidation(s[:pathEnd])
	label := s[:finalLen]
	return gfmAutolinkMatch{length: len(label), href: "http://" + label}, true
}

func matchURL(s string) (gfmAutolinkMatch, bool) {
	var schemeLen int
	switch {
	case strings.HasPrefix(s, "https://"):
		schemeLen = len("https://")
	case strings.HasPrefix(s, "http://"):
		schemeLen = len("http://")
	default:
		return gfmAutolinkMatch{}, false
	}
	domainLen, ok := parseDomain(s[schemeLen:], false)
	if !ok {
		return gfmAutolinkMatch{}, false
	}
	pathEnd := scanNonspace(s, schemeLen+domainLen)
	finalLen := applyExtendedPathValidation(s[:pathEnd])
	label := s[:finalLen]
	return gfmAutolinkMatch{length: len(label), href: label}, true
}

func matchEmail(s string) (gfmAutolinkMatch, bool) {
	n, ok := parseExtendedEmail(s)
	if !ok {
		return gfmAutolinkMatch{}, false
	}
	label := s[:n]
	return gfmAutolinkMatch{length: len(label), href: "mailto:" + label}, true
}

func matchMailto(s string) (gfmAutolinkMatch, bool) {
	const prefix = "mailto:"
	if !strings.HasPrefix(s, prefix) {
		return gfmAutolinkMatch{}, false
	}
	n, ok := parseExtendedEmail(s[len(prefix):])
	if !ok {
		return gfmAutolinkMatch{}, false
	}
	full := len(prefix) + n
	return gfmAutolinkMatch{length: full, href: s[:full]}, true
}

func matchXMPP(s string) (gfmAutolinkMatch, bool) {
	const prefix = "xmpp:"
	if !strings.HasPrefix(s, prefix) {
		return gfmAutolinkMatch{}, false
	}
	n, ok := parseExtendedEmail(s[len(prefix):])
	if !ok {
		return gfmAutolinkMatch{}, false
	}
	full := len(prefix) + n
	if full < len(s) && s[full] == '/' {
		rest := s[full+1:]
		resourceLen := 0
		for resourceLen < len(rest) && isXMPPResourceChar(rest[resourceLen]) {
			resourceLen++
		}
		if resourceLen > 0 {
			full += 1 + resourceLen
		}
	}
	return gfmAutolinkMatch{length: full, href: s[:full]}, true
}

func isXMPPResourceChar(b byte) bool {
	return isAlnum(b) || b == '@' || b == '.'
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isEmailLocalChar(b byte) bool {
	return isAlnum(b) || b == '.' || b == '-' || b == '_' || b == '+'
}

func isEmailDomainChar(b byte) bool {
	return isAlnum(b) || b == '-' || b == '_'
}

// parseExtendedEmail parses "local@domain" from the start of s and returns
// the byte length consumed. A local part ending in '.' is rejected.
func parseExtendedEmail(s string) (int, bool) {
	i := 0
	sawLocal := false
	for i < len(s) && isEmailLocalChar(s[i]) {
		i++
		sawLocal = true
	}
	if !sawLocal || i >= len(s) || s[i] != '@' {
		return 0, false
	}
	if s[i-1] == '.' {
		return 0, false
	}
	domainLen, ok := parseEmailDomain(s[i+1:])
	if !ok {
		return 0, false
	}
	return i + 1 + domainLen, true
}

// parseEmailDomain requires at least two dot-separated segments, each
// alnum/'-'/'_', with the final segment's last character neither '-' nor '_'.
func parseEmailDomain(s string) (int, bool) {
	total, lastChar, ok := parseDomainSegment(s)
	if !ok {
		return 0, false
	}
	segments := 1
	for total < len(s) && s[total] == '.' {
		rest := s[total+1:]
		if rest == "" || !isEmailDomainChar(rest[0]) {
			break
		}
		segLen, lc, ok2 := parseDomainSegment(rest)
		if !ok2 {
			break
		}
		total += 1 + segLen
		segments++
		lastChar = lc
	}
	if segments < 2 {
		return 0, false
	}
	if lastChar == '-' || lastChar == '_' {
		return 0, false
	}
	return total, true
}

// parseDomain requires at least two dot-separated segments and disallows an
// underscore anywhere in the final two segments, per the www/http form
// rules (stricter than the email-domain rule).
func parseDomain(s string, emailForm bool) (int, bool) {
	type seg struct {
		start, end int
		underscore bool
	}
	var segs []seg
	total := 0
	for {
		segLen, lastUnderscore, ok := parseDomainSegmentFull(s[total:])
		if !ok {
			break
		}
		segs = append(segs, seg{start: total, end: total + segLen, underscore: lastUnderscore})
		total += segLen
		if total < len(s) && s[total] == '.' && total+1 < len(s) && isEmailDomainChar(s[total+1]) {
			total++
			continue
		}
		break
	}
	if len(segs) < 2 {
		return 0, false
	}
	if !emailForm {
		for _, sg := range segs[len(segs)-2:] {
			if sg.underscore {
				return 0, false
			}
		}
	}
	return total, true
}

func parseDomainSegment(s string) (int, byte, bool) {
	n := 0
	for n < len(s) && isEmailDomainChar(s[n]) {
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return n, s[n-1], true
}

func parseDomainSegmentFull(s string) (length int, hasUnderscore bool, ok bool) {
	n := 0
	for n < len(s) && isEmailDomainChar(s[n]) {
		if s[n] == '_' {
			hasUnderscore = true
		}
		n++
	}
	if n == 0 {
		return 0, false, false
	}
	return n, hasUnderscore, true
}

func scanNonspace(s string, start int) int {
	i := start
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '<' || c == '>' {
			break
		}
		i++
	}
	return i
}

// applyExtendedPathValidation trims trailing punctuation, an unmatched
// trailing ')', and a trailing HTML-entity-shaped tail from candidate,
// mirroring the three-step trim in the Rust original.
func applyExtendedPathValidation(candidate string) int {
	end := len(candidate)
	end = trimTrailingPunctuation(candidate, end)
	end = trimUnmatchedParen(candidate, end)
	end = trimTrailingEntity(candidate, end)
	return end
}

func trimTrailingPunctuation(s string, end int) int {
	for end > 0 && strings.IndexByte("?!.,:*_~]", s[end-1]) >= 0 {
		end--
	}
	return end
}

func trimUnmatchedParen(s string, end int) int {
	if end == 0 || s[end-1] != ')' {
		return end
	}
	open, close := 0, 0
	for i := 0; i < end; i++ {
		switch s[i] {
		case '(':
			open++
		case ')':
			close++
		}
	}
	for close > open && end > 0 && s[end-1] == ')' {
		end--
		close--
	}
	return end
}

func trimTrailingEntity(s string, end int) int {
	semi := strings.LastIndexByte(s[:end], ';')
	if semi < 0 {
		return end
	}
	amp := strings.LastIndexByte(s[:semi], '&')
	if amp < 0 {
		return end
	}
	for i := amp + 1; i < semi; i++ {
		if !isAlnum(s[i]) {
			return end
		}
	}
	if semi+1 == end {
		return amp
	}
	return end
}

// boundaryOk implements the boundary rule shared by the www/http(s) forms:
// the character immediately preceding the candidate start must be the
// start of text, whitespace, or one of '*_~('.
func boundaryOk(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	c := text[pos-1]
	if c == ' ' || c == '\t' || c == '\n' {
		return true
	}
	return c == '*' || c == '_' || c == '~' || c == '('
}

// scanAutolinkLiterals splits text[s:e] into plain Text nodes interleaved
// with Autolink nodes for every recognized GFM literal, appending the
// result to nodes and returning the extended slice.
func (p *parser) scanAutolinkLiterals(nodes []*ast.Node, s, e int) []*ast.Node {
	text := p.text
	pos := s
	flushed := s
	for pos < e {
		c := text[pos]
		var candidate bool
		switch {
		case c == 'h' || c == 'w':
			candidate = boundaryOk(text, pos)
		case c == 'm' || c == 'x':
			candidate = true
		default:
			candidate = isEmailLocalChar(c)
		}
		if candidate {
			if m, ok := matchGFMAutolinkAtStart(text[pos:e]); ok && m.length > 0 {
				if pos > flushed {
					nodes = append(nodes, ast.NewText(text[flushed:pos], p.spanFor(flushed, pos)))
				}
				linkEnd := pos + m.length
				node := ast.NewNode(ast.KindAutolink, p.spanFor(pos, linkEnd))
				node.Label = text[pos:linkEnd]
				node.URL = m.href
				nodes = append(nodes, node)
				pos = linkEnd
				flushed = pos
				continue
			}
		}
		pos++
	}
	if flushed < e {
		nodes = append(nodes, ast.NewText(text[flushed:e], p.spanFor(flushed, e)))
	}
	return nodes
}
