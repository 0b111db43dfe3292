package blockparser

import "github.com/ranrar/marco/span"

// offsetSegment maps one physical line of a dedented synthetic string back
// to the original document. Bytes at synthetic offsets
// [syntheticStart+paddingLen, syntheticStart+length) correspond 1:1 to
// original bytes starting at originStart; bytes inside the padding prefix
// (synthetic spaces inserted when a tab was only partially consumed by the
// strip) have no original counterpart and collapse to originStart.
type offsetSegment struct {
	syntheticStart uint64
	length         uint64 // total length of this line's text in the synthetic string, including padding
	paddingLen     uint64
	originStart    uint64 // original offset corresponding to syntheticStart+paddingLen
}

// offsetMap translates byte offsets within a synthetic dedented string back
// to offsets in the original document source.
type offsetMap struct {
	segments []offsetSegment
}

func (m *offsetMap) translate(syntheticOffset uint64) uint64 {
	if len(m.segments) == 0 {
		return 0
	}
	lo, hi := 0, len(m.segments)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.segments[mid].syntheticStart <= syntheticOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	seg := m.segments[lo]
	rel := syntheticOffset - seg.syntheticStart
	if rel <= seg.paddingLen {
		return seg.originStart
	}
	return seg.originStart + (rel - seg.paddingLen)
}

// dedentedLine is one line's result from stripColumns.
type dedentedLine struct {
	text        string
	paddingLen  int
	originStart uint64 // original offset where text[paddingLen:] begins
}

// stripColumns removes up to `columns` worth of leading indentation from
// the line, expanding tabs as it goes (per span.AdvanceColumn's rule). If a
// tab would overshoot the requested column count, the overshoot is
// represented as literal padding spaces in the returned text, since a tab
// byte cannot be partially consumed. This is the builder's canonical
// dedent operation (spec §4.C, §9): callers needing to map a position in
// the dedented text back to the original source use the returned
// paddingLen/originStart, which buildDedentedRegion records in its offsetMap.
func stripColumns(source []byte, l lineSpan, columns int) dedentedLine {
	col := 0
	i := l.Start
	for i < l.End && col < columns {
		b := source[i]
		if b == ' ' {
			col++
			i++
		} else if b == '\t' {
			next := int(advanceColumn(uint32(col+1), '\t')) - 1
			if next > columns {
				// Partial tab consumption: emit the overshoot as padding.
				overshoot := next - columns
				i++
				return dedentedLine{
					text:        spaces(overshoot) + string(source[i:l.End]),
					paddingLen:  overshoot,
					originStart: i,
				}
			}
			col = next
			i++
		} else {
			break
		}
	}
	return dedentedLine{text: string(source[i:l.End]), paddingLen: 0, originStart: i}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// buildDedentedRegion dedents a sequence of raw source lines by `columns`
// each, joins them with "\n" into one synthetic string suitable for a
// recursive blockparser pass, and returns the offsetMap needed to translate
// spans discovered in that synthetic string back to original coordinates.
func buildDedentedRegion(source []byte, lines []lineSpan, columns int) (string, *offsetMap) {
	var sb []byte
	segs := make([]offsetSegment, 0, len(lines))
	synOffset := uint64(0)
	for i, l := range lines {
		dl := stripColumns(source, l, columns)
		segs = append(segs, offsetSegment{
			syntheticStart: synOffset,
			length:         uint64(len(dl.text)),
			paddingLen:     uint64(dl.paddingLen),
			originStart:    dl.originStart,
		})
		sb = append(sb, dl.text...)
		synOffset += uint64(len(dl.text))
		if i < len(lines)-1 {
			sb = append(sb, '\n')
			synOffset++
		}
	}
	return string(sb), &offsetMap{segments: segs}
}

// buildTrimmedRegion joins a run of source lines with "\n", right-trimming
// trailing spaces/tabs from each line exactly as joinLines does, and
// returns the offsetMap needed to translate spans discovered in the joined
// synthetic string back to original coordinates. Unlike
// buildDedentedRegion, no leading columns are stripped, so every segment's
// paddingLen is zero and each synthetic byte maps 1:1 to an original byte.
func buildTrimmedRegion(source []byte, lines []lineSpan) (string, *offsetMap) {
	var sb []byte
	segs := make([]offsetSegment, 0, len(lines))
	synOffset := uint64(0)
	for i, l := range lines {
		trimmedEnd := trimTrailingSpace(source, l)
		text := string(source[l.Start:trimmedEnd])
		segs = append(segs, offsetSegment{
			syntheticStart: synOffset,
			length:         uint64(len(text)),
			paddingLen:     0,
			originStart:    l.Start,
		})
		sb = append(sb, text...)
		synOffset += uint64(len(text))
		if i < len(lines)-1 {
			sb = append(sb, '\n')
			synOffset++
		}
	}
	return string(sb), &offsetMap{segments: segs}
}

// remapSpan translates a span computed against a synthetic dedented string
// (using idx, the synthetic string's own line index) back into a span
// against the original source (using origIdx).
func remapSpan(sp span.Span, m *offsetMap, origIdx *span.Index) span.Span {
	startOff := m.translate(sp.Start.Offset)
	endOff := m.translate(sp.End.Offset)
	if endOff < startOff {
		endOff = startOff
	}
	return span.Span{Start: origIdx.Position(startOff), End: origIdx.Position(endOff)}
}
