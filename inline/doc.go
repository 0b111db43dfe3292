// Package inline recognizes CommonMark + GFM + Marco inline structure
// within the literal text carried by each leaf block (paragraph, heading,
// table cell). Precedence follows spec order: HTML comments and raw HTML
// are matched first, then escapes, then code spans, then math spans, then
// autolinks, then links/images, then the emphasis/strong/strikethrough/
// highlight/sub/superscript delimiter-run resolution, then Marco's own
// extensions, with anything left over falling back to Text.
//
// Spans for inline nodes are computed as idx.Position(baseOffset + local
// offset) over the text handed to ParseLeaf. Where that text is a
// contiguous slice of the source (ATX headings, table cells), the caller
// passes the document's own index and the slice's starting offset. Where
// it is not (line-joined paragraph text with trailing whitespace trimmed
// per physical line), the block parser passes an index over the joined
// text and afterwards remaps every returned span to original-source
// coordinates.
package inline

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
	"github.com/ranrar/marco/span"
)

// DefaultMaxDelimiterRunLength is an exported bound on the length of a run
// of emphasis markers. The parser in this package does not consult it:
// delimiter runs of any length are scanned and split into chunks.
const DefaultMaxDelimiterRunLength = 1000

// Context carries the state shared by one document's inline parsing pass:
// the document's reference table (for reference-style links/images) and
// the diagnostic bag recoverable failures are attached to.
type Context struct {
	Doc *ast.Document
	Bag *diag.Bag
}

// ParseLeaf recognizes inline structure within literal (the text already
// collected by the block builder for one leaf node) and returns its
// children. idx is the span index that literal's offsets are measured
// against and baseOffset is the offset in that index literal[0]
// corresponds to; child spans are idx.Position(baseOffset + localOffset).
func ParseLeaf(ctx *Context, literal string, idx *span.Index, baseOffset uint64) []*ast.Node {
	p := &parser{
		ctx:        ctx,
		text:       literal,
		idx:        idx,
		baseOffset: baseOffset,
		n:          len(literal),
	}
	return p.parseInlines(0, len(literal))
}
