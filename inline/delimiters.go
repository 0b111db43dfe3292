package inline

import "github.com/ranrar/marco/ast"

// resolveDelimiters walks the flat nodes slice looking for closing
// delimiter runs and matches each against the nearest compatible opener,
// wrapping the nodes between them into the appropriate inline kind. This
// mirrors CommonMark's delimiter-stack algorithm without its active/
// inactive-marker bookkeeping for inline-link interruption, since Marco's
// link scanning already consumes brackets before the delimiter pass sees
// them. Adjacent Text nodes left in the result (such as an unmatched
// delimiter run beside plain text) are merged into one.
func resolveDelimiters(p *parser, nodes []*ast.Node, delims []*delimiter) []*ast.Node {
	for ci := 0; ci < len(delims); ci++ {
		closer := delims[ci]
		if !closer.active || !closer.canClose || closer.count == 0 {
			continue
		}
		for oi := ci - 1; oi >= 0; oi-- {
			opener := delims[oi]
			if !opener.active || opener.char != closer.char || !opener.canOpen || opener.count == 0 {
				continue
			}
			if (opener.canOpen && closer.canClose) && opener.char == closer.char {
				width := delimiterWidth(opener.char, &opener.count, &closer.count)
				if width == 0 {
					continue
				}
				wrapped := wrapDelimiterRange(p, nodes, opener.start, closer.start, opener.char, width)
				if wrapped == nil {
					continue
				}
				nodes = wrapped.nodes
				if opener.count == 0 {
					opener.active = false
				}
				if closer.count == 0 {
					closer.active = false
				}
				break
			}
		}
	}

	var out []*ast.Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if k := len(out) - 1; k >= 0 && n.Kind() == ast.KindText && out[k].Kind() == ast.KindText {
			out[k].Literal += n.Literal
			out[k].SetSpan(spanFromPositions(out[k].Span().Start, n.Span().End))
			continue
		}
		out = append(out, n)
	}
	return out
}

// delimiterWidth decides whether this opener/closer pair can combine and, if
// so, fully consumes both (setting both counts to 0) and returns the
// consumed width (1 or 2). Runs longer than two characters are split into
// separate chunk entries at scan time (see splitDelimiterRun in parser.go),
// so every entry reaching here already carries a count of 1 or 2; requiring
// an exact match (rather than CommonMark's partial-consumption rule) means a
// run can pair at most once. A delimiter run that cannot find an
// exact-width partner degrades to literal text, per the engine's "unresolved
// delimiter runs degrade to text" rule — the original characters are never
// dropped, only left unstyled.
func delimiterWidth(char byte, openerCount, closerCount *int) int {
	if *openerCount == 0 || *closerCount == 0 || *openerCount != *closerCount {
		return 0
	}
	switch char {
	case '=':
		if *openerCount != 2 {
			return 0
		}
	case '^':
		if *openerCount != 1 {
			return 0
		}
	}
	width := *openerCount
	*openerCount = 0
	*closerCount = 0
	return width
}

func kindForDelimiter(char byte, width int) ast.Kind {
	switch char {
	case '~':
		if width == 2 {
			return ast.KindStrikethrough
		}
		return ast.KindSubscript
	case '=':
		return ast.KindHighlight
	case '^':
		return ast.KindSuperscript
	default: // '*', '_'
		if width == 2 {
			return ast.KindStrong
		}
		return ast.KindEmphasis
	}
}

type wrapResult struct {
	nodes []*ast.Node
}

// wrapDelimiterRange replaces nodes[openerIdx] and nodes[closerIdx] with a
// single wrapper node containing everything between them. Delimiter runs
// longer than two characters are split into multiple chunk entries at scan
// time (see scanDelimiterRun's caller in parser.go), so by the time pairing
// reaches here each entry's width always matches exactly — there is never a
// partial-consumption remainder to reinsert.
func wrapDelimiterRange(p *parser, nodes []*ast.Node, openerIdx, closerIdx int, char byte, width int) *wrapResult {
	if openerIdx >= closerIdx || openerIdx < 0 || closerIdx >= len(nodes) {
		return nil
	}
	opener := nodes[openerIdx]
	closerNode := nodes[closerIdx]
	if opener == nil || closerNode == nil {
		return nil
	}

	start := opener.Span().Start
	end := closerNode.Span().End
	wrapper := ast.NewNode(kindForDelimiter(char, width), spanFromPositions(start, end))
	for k := openerIdx + 1; k < closerIdx; k++ {
		if nodes[k] != nil {
			ast.AppendChild(wrapper, nodes[k])
			nodes[k] = nil
		}
	}

	nodes[openerIdx] = wrapper
	nodes[closerIdx] = nil

	return &wrapResult{nodes: nodes}
}
