package inline

import "github.com/ranrar/marco/ast"

// scanCodeSpan implements spec.md §4.D.2: a run of N backticks opens a code
// span; the first subsequent run of exactly N backticks closes it. Leading
// and trailing single spaces are stripped when the content starts and ends
// with a space and is not all whitespace. A run with no matching closer of
// the same length is not a code span at all — the backticks fall through
// to plain text, per CommonMark.
func scanCodeSpan(p *parser, i, end int) (*ast.Node, int, bool) {
	open := i
	for open < end && p.text[open] == '`' {
		open++
	}
	n := open - i
	if n == 0 {
		return nil, 0, false
	}

	k := open
	for k < end {
		if p.text[k] != '`' {
			k++
			continue
		}
		runStart := k
		for k < end && p.text[k] == '`' {
			k++
		}
		if k-runStart == n {
			content := normalizeCodeSpanContent(p.text[open:runStart])
			node := ast.NewNode(ast.KindCode, p.spanFor(i, k))
			node.Literal = content
			return node, k, true
		}
	}
	return nil, 0, false
}

func normalizeCodeSpanContent(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out[i] = ' '
		} else {
			out[i] = s[i]
		}
	}
	s = string(out)
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && len(trimAll(s, ' ')) > 0 {
		s = s[1 : len(s)-1]
	}
	return s
}

func trimAll(s string, c byte) string {
	start, end := 0, len(s)
	for start < end && s[start] == c {
		start++
	}
	for end > start && s[end-1] == c {
		end--
	}
	return s[start:end]
}
