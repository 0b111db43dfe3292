package blockparser

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
	"github.com/ranrar/marco/span"
)

// Parser recognizes CommonMark + GFM + Marco block structure and builds
// the typed AST. Configuration follows the functional-options pattern the
// teacher's NewMarkdownParser used to configure goldmark, generalized to
// this engine's own options.
type Parser struct {
	maxBlockDepth      int
	maxAdmonitionDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxBlockDepth overrides the general block-nesting ceiling.
func WithMaxBlockDepth(n int) Option {
	return func(p *Parser) { p.maxBlockDepth = n }
}

// WithMaxAdmonitionDepth overrides the admonition-nesting ceiling.
func WithMaxAdmonitionDepth(n int) Option {
	return func(p *Parser) { p.maxAdmonitionDepth = n }
}

// New creates a Parser with the engine's default recursion ceilings.
func New(opts ...Option) *Parser {
	p := &Parser{
		maxBlockDepth:      DefaultMaxBlockDepth,
		maxAdmonitionDepth: DefaultMaxAdmonitionDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse recognizes block structure across the whole source and returns a
// Document whose Root's children are the top-level block nodes. Reference
// and footnote definitions are collected into the Document's side tables
// by a first pass over the source, so a link can resolve a definition that
// appears after it. Parse never panics on valid UTF-8 input;
// recoverable failures are attached to the returned diagnostic bag.
func (p *Parser) Parse(source []byte) (*ast.Document, *diag.Bag) {
	bag := &diag.Bag{}
	doc := ast.NewDocument(source)
	idx := span.NewIndex(source)
	doc.LineCount = idx.LineCount()

	ctx := &blockContext{
		doc:                doc,
		bag:                bag,
		maxBlockDepth:      p.maxBlockDepth,
		maxAdmonitionDepth: p.maxAdmonitionDepth,
	}

	lines := splitLines(source)
	// The first pass only fills the side tables; its nodes and diagnostics
	// are discarded. Footnote bodies are registered again by the second
	// pass so that they too see every reference definition.
	pre := *ctx
	pre.bag = &diag.Bag{}
	parseRegion(&pre, source, idx, lines, 0)
	doc.Footnotes = make(map[string]*ast.FootnoteDefinition)
	children := parseRegion(ctx, source, idx, lines, 0)
	for _, c := range children {
		ast.AppendChild(doc.Root, c)
	}
	doc.Root.SetSpan(span.Span{
		Start: idx.Position(0),
		End:   idx.Position(uint64(len(source))),
	})
	return doc, bag
}
