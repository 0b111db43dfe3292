package blockparser

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
)

// Default recursion ceilings, per spec §5: admonitions nest at most 16
// deep; general block containers (blockquote-in-list-in-blockquote...) nest
// at most 100 deep.
const (
	DefaultMaxBlockDepth      = 100
	DefaultMaxAdmonitionDepth = 16
)

// blockContext carries the state shared across one document's recursive
// block parse: the document's side tables, the diagnostic bag, and the
// depth ceilings. This is the "orchestrator passes a depth counter" design
// from spec §9 — every recursive entry point increments the relevant depth
// and checks it here, in one place, rather than re-implementing the check
// per construct.
type blockContext struct {
	doc                *ast.Document
	bag                *diag.Bag
	maxBlockDepth      int
	maxAdmonitionDepth int
}

func (c *blockContext) blockDepthExceeded(depth int) bool {
	return depth > c.maxBlockDepth
}

func (c *blockContext) admonitionDepthExceeded(depth int) bool {
	return depth > c.maxAdmonitionDepth
}
