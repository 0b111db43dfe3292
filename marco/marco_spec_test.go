package marco

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranrar/marco/highlight"
	"github.com/ranrar/marco/span"
	"github.com/ranrar/marco/spec"
)

var commonmarkFixtures = spec.CommonMarkJSON
var extraFixtures = spec.ExtraJSON

// specExample mirrors the CommonMark/LSP test-suite schema: example number,
// section name, input markdown, expected HTML, and an optional source-line
// range in the upstream spec document. Entries missing markdown or html are
// skipped rather than failing the suite, per spec.md §6.2.
type specExample struct {
	Example   int    `json:"example"`
	Section   string `json:"section"`
	Markdown  string `json:"markdown"`
	HTML      string `json:"html"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

func loadFixtures(t *testing.T, raw []byte) []specExample {
	t.Helper()
	var examples []specExample
	require.NoError(t, json.Unmarshal(raw, &examples))
	var out []specExample
	for _, ex := range examples {
		if ex.Markdown == "" || ex.HTML == "" {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// TestParseNeverFails exercises every fixture example (CommonMark subset
// plus Marco/GFM extras) through Parse, asserting only that parsing
// completes and produces a Document whose root span covers the source —
// the properties-under-test that must hold for every well-formed input
// regardless of this repo's exact HTML escaping/whitespace choices.
func TestParseNeverFails(t *testing.T) {
	e := New()
	for _, raw := range [][]byte{commonmarkFixtures, extraFixtures} {
		for _, ex := range loadFixtures(t, raw) {
			ex := ex
			t.Run(ex.Section, func(t *testing.T) {
				doc, diags, err := e.Parse([]byte(ex.Markdown))
				require.NoError(t, err)
				require.NotNil(t, doc)
				assert.Equal(t, uint64(0), doc.Root.Span().Start.Offset)
				assert.Equal(t, uint64(len(ex.Markdown)), doc.Root.Span().End.Offset)
				for _, d := range diags {
					t.Logf("diagnostic: %s %s (%s)", d.Level, d.Message, d.Rule)
				}
			})
		}
	}
}

// TestParseToHTMLProducesNonEmptyOutput checks that rendering every fixture
// example succeeds and yields non-empty HTML, a loose regression guard
// that doesn't compare this renderer's output with the fixture's html.
func TestParseToHTMLProducesNonEmptyOutput(t *testing.T) {
	e := New()
	for _, raw := range [][]byte{commonmarkFixtures, extraFixtures} {
		for _, ex := range loadFixtures(t, raw) {
			ex := ex
			t.Run(ex.Section, func(t *testing.T) {
				html, _, err := e.ParseToHTML([]byte(ex.Markdown), DefaultRenderOptions())
				require.NoError(t, err)
				if ex.Markdown != "" {
					assert.NotEmpty(t, html)
				}
			})
		}
	}
}

// TestHighlightsNeverCrossOverlap is the property test named in spec.md
// §4.H / §8: for every example in both fixture files that parses without
// error, compute_highlights' output must contain no pair of spans that
// cross-overlap (either disjoint or properly nested).
func TestHighlightsNeverCrossOverlap(t *testing.T) {
	e := New()
	for _, raw := range [][]byte{commonmarkFixtures, extraFixtures} {
		for _, ex := range loadFixtures(t, raw) {
			ex := ex
			t.Run(ex.Section, func(t *testing.T) {
				doc, _, err := e.Parse([]byte(ex.Markdown))
				require.NoError(t, err)
				highlights := e.ComputeHighlights(doc)
				assertNoCrossOverlap(t, highlights)
			})
		}
	}
}

func assertNoCrossOverlap(t *testing.T, highlights []highlight.Highlight) {
	t.Helper()
	for i := range highlights {
		for j := i + 1; j < len(highlights); j++ {
			a, b := highlights[i].Span, highlights[j].Span
			if !spansOverlap(a, b) {
				continue
			}
			assert.True(t, spanContains(a, b) || spanContains(b, a),
				"highlights %d (%s) and %d (%s) overlap without nesting",
				i, highlights[i].Tag, j, highlights[j].Tag)
		}
	}
}

// spansOverlap reports whether a and b share any byte range.
func spansOverlap(a, b span.Span) bool {
	return a.Start.Offset < b.End.Offset && b.Start.Offset < a.End.Offset
}

// spanContains reports whether outer fully contains inner.
func spanContains(outer, inner span.Span) bool {
	return outer.Start.Offset <= inner.Start.Offset && inner.End.Offset <= outer.End.Offset
}
