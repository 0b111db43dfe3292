package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

func TestGetDocumentMissThenHit(t *testing.T) {
	c := New()
	hash := ContentHash([]byte("# hello"))

	_, _, ok := c.GetDocument(hash)
	assert.False(t, ok)

	doc := ast.NewDocument([]byte("# hello"))
	c.PutDocument(hash, doc, nil)

	got, _, ok := c.GetDocument(hash)
	require.True(t, ok)
	assert.Same(t, doc, got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.TotalRequests)
}

func TestGetDocumentExpires(t *testing.T) {
	c := WithConfig(Config{MaxAge: time.Nanosecond})
	hash := ContentHash([]byte("x"))
	c.PutDocument(hash, ast.NewDocument([]byte("x")), nil)

	time.Sleep(time.Millisecond)

	_, _, ok := c.GetDocument(hash)
	assert.False(t, ok)
}

func TestPutDocumentEvictsOldestPastTenEntries(t *testing.T) {
	c := New()
	for i := 0; i < 11; i++ {
		hash := uint64(i)
		c.PutDocument(hash, ast.NewDocument([]byte("x")), nil)
	}
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
}

func TestPutNodeSkipsBelowMinCacheSize(t *testing.T) {
	c := WithConfig(Config{MinCacheSize: 100, MaxCachedNodes: 10})
	id := BlockID{LineStart: 1, LineEnd: 1, BlockType: "paragraph"}
	node := ast.NewText("hi", span.Span{})

	c.PutNode(id, 1, node, 5)

	_, ok := c.GetNode(id, 1)
	assert.False(t, ok)
}

func TestPutNodeEvictsLRU(t *testing.T) {
	c := WithConfig(Config{MinCacheSize: 1, MaxCachedNodes: 2})
	a := BlockID{LineStart: 1, LineEnd: 1, BlockType: "paragraph"}
	b := BlockID{LineStart: 2, LineEnd: 2, BlockType: "paragraph"}
	z := BlockID{LineStart: 3, LineEnd: 3, BlockType: "paragraph"}

	node := ast.NewText("x", span.Span{})
	c.PutNode(a, 1, node, 10)
	c.PutNode(b, 2, node, 10)
	// touch a so it's more recently used than b
	c.GetNode(a, 1)
	c.PutNode(z, 3, node, 10)

	_, aok := c.GetNode(a, 1)
	_, bok := c.GetNode(b, 2)
	_, zok := c.GetNode(z, 3)

	assert.True(t, aok)
	assert.False(t, bok)
	assert.True(t, zok)
}

func TestPutNodeEvictsToRespectMemoryCeiling(t *testing.T) {
	c := WithConfig(Config{MinCacheSize: 1, MaxCachedNodes: 100, MaxMemoryBytes: 25})
	a := BlockID{LineStart: 1, LineEnd: 1, BlockType: "paragraph"}
	b := BlockID{LineStart: 2, LineEnd: 2, BlockType: "paragraph"}
	z := BlockID{LineStart: 3, LineEnd: 3, BlockType: "paragraph"}
	node := ast.NewText("x", span.Span{})

	c.PutNode(a, 1, node, 10)
	c.PutNode(b, 2, node, 10)
	assert.LessOrEqual(t, c.Stats().MemoryUsage, 25)

	c.PutNode(z, 3, node, 10)

	_, aok := c.GetNode(a, 1)
	assert.False(t, aok, "oldest entry must be evicted to stay under MaxMemoryBytes")
	stats := c.Stats()
	assert.LessOrEqual(t, stats.MemoryUsage, 25)
	assert.Greater(t, stats.MemoryUsage, 0)
}

func TestClearResetsMemoryUsage(t *testing.T) {
	c := WithConfig(Config{MinCacheSize: 1, MaxCachedNodes: 10})
	id := BlockID{LineStart: 1, LineEnd: 1, BlockType: "paragraph"}
	c.PutNode(id, 1, ast.NewText("x", span.Span{}), 50)
	require.Equal(t, 50, c.Stats().MemoryUsage)

	c.Clear()

	assert.Equal(t, 0, c.Stats().MemoryUsage)
}

func TestInvalidateLinesDropsOverlappingBlocksAndAllDocuments(t *testing.T) {
	c := New()
	id := BlockID{LineStart: 5, LineEnd: 10, BlockType: "paragraph"}
	node := ast.NewText("x", span.Span{})
	c.PutNode(id, 1, node, 100)
	c.PutDocument(42, ast.NewDocument([]byte("x")), nil)

	c.InvalidateLines(8, 8)

	_, ok := c.GetNode(id, 1)
	assert.False(t, ok)
	_, _, ok = c.GetDocument(42)
	assert.False(t, ok)
}

func TestBlockIDOverlapsLines(t *testing.T) {
	id := BlockID{LineStart: 5, LineEnd: 10}
	assert.True(t, id.OverlapsLines(1, 5))
	assert.True(t, id.OverlapsLines(10, 20))
	assert.True(t, id.OverlapsLines(6, 7))
	assert.False(t, id.OverlapsLines(1, 4))
	assert.False(t, id.OverlapsLines(11, 20))
}

func TestHitRate(t *testing.T) {
	var s Stats
	assert.Equal(t, 0.0, s.HitRate())
	s.Hits, s.TotalRequests = 3, 4
	assert.Equal(t, 0.75, s.HitRate())
}
