package blockparser

// lineSpan is a half-open byte range [Start, End) covering one physical
// line's content, excluding its line terminator.
type lineSpan struct {
	Start, End uint64
}

func (l lineSpan) empty() bool { return l.End <= l.Start }

// splitLines splits text into physical lines at each "\n". A trailing line
// with no terminator is still included. A "\r" immediately before a "\n" is
// excluded from the line's content; a lone "\r" does not end a line.
func splitLines(text []byte) []lineSpan {
	var lines []lineSpan
	start := uint64(0)
	n := uint64(len(text))
	for i := uint64(0); i < n; i++ {
		switch text[i] {
		case '\n':
			end := i
			if end > start && text[end-1] == '\r' {
				end--
			}
			lines = append(lines, lineSpan{Start: start, End: end})
			start = i + 1
		}
	}
	if start < n {
		lines = append(lines, lineSpan{Start: start, End: n})
	} else if n == 0 {
		lines = append(lines, lineSpan{Start: 0, End: 0})
	}
	return lines
}

// leadingIndent measures the column width of leading spaces/tabs on a line
// (tab-aware, per span.AdvanceColumn) and returns the byte offset of the
// first non-whitespace byte.
func leadingIndent(text []byte, l lineSpan) (columns int, contentStart uint64) {
	col := uint32(1)
	i := l.Start
	for i < l.End {
		b := text[i]
		if b != ' ' && b != '\t' {
			break
		}
		if b == '\t' {
			col = advanceColumn(col, '\t')
		} else {
			col++
		}
		i++
	}
	return int(col - 1), i
}

func advanceColumn(column uint32, ch rune) uint32 {
	const tabSize = 4
	if ch == '\t' {
		return ((column-1)/tabSize+1)*tabSize + 1
	}
	return column + 1
}

func isBlank(text []byte, l lineSpan) bool {
	_, contentStart := leadingIndent(text, l)
	return contentStart >= l.End
}

func lineText(text []byte, l lineSpan) []byte {
	return text[l.Start:l.End]
}

// trimTrailingSpace returns the end offset of l with trailing spaces/tabs
// removed.
func trimTrailingSpace(text []byte, l lineSpan) uint64 {
	end := l.End
	for end > l.Start {
		b := text[end-1]
		if b != ' ' && b != '\t' {
			break
		}
		end--
	}
	return end
}
