// Package cache provides document- and block-level caching for parsed
// Marco documents, grounded on
// original_source/src/components/marco_engine/cache.rs's ASTCache: a
// document-level cache keyed by content hash plus a block-level substrate
// keyed by (BlockID, content hash), both guarded by a reader/writer lock so
// many concurrent readers (syntax highlighting, rendering) never block on
// each other while a parse installs a new entry.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
)

// Config controls cache sizing and eviction behavior, mirroring the
// original's ASTCacheConfig field-for-field.
type Config struct {
	MaxCachedNodes int
	MaxMemoryBytes int
	MaxAge         time.Duration
	EnableCleanup  bool
	MinCacheSize   int
}

// DefaultConfig matches the original's Default impl (1000 nodes, 50MB,
// 5 minute max age, cleanup on, 10-byte floor).
func DefaultConfig() Config {
	return Config{
		MaxCachedNodes: 1000,
		MaxMemoryBytes: 50 * 1024 * 1024,
		MaxAge:         5 * time.Minute,
		EnableCleanup:  true,
		MinCacheSize:   10,
	}
}

// Stats reports cache performance counters, supplemented with an
// InstanceID (spec.md §4.F-adjacent, per SPEC_FULL.md §4.K) so a host
// running multiple engine instances (editor + preview pane) can
// distinguish their telemetry.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Evictions     uint64
	TotalRequests uint64
	MemoryUsage   int
	CacheSize     int
	InstanceID    uuid.UUID
}

// HitRate returns Hits/TotalRequests, or 0 when no requests have been made.
func (s Stats) HitRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalRequests)
}

// BlockID identifies a cacheable block by its source position and a type
// hint, the same shape as the original's BlockId (line/column ranges plus
// a block_type string).
type BlockID struct {
	LineStart, LineEnd     uint32
	ColumnStart, ColumnEnd uint32
	BlockType              string
}

// OverlapsLines reports whether the block's line range intersects
// [start, end], used by InvalidateLines.
func (b BlockID) OverlapsLines(start, end uint32) bool {
	return b.LineStart <= end && start <= b.LineEnd
}

type blockKey struct {
	id   BlockID
	hash uint64
}

type cachedNode struct {
	node         *ast.Node
	hash         uint64
	createdAt    time.Time
	lastAccessed time.Time
	accessCount  uint32
	sizeEstimate int
}

type cachedDocument struct {
	doc         *ast.Document
	diagnostics []diag.Diagnostic
	createdAt   time.Time
}

// Cache is a thread-safe document-and-block AST cache. The zero value is
// not usable; construct with New or WithConfig.
type Cache struct {
	mu          sync.RWMutex
	blocks      map[blockKey]*cachedNode
	docs        map[uint64]*cachedDocument
	memoryUsage int

	config Config

	hits, misses, evictions, totalRequests atomic.Uint64

	instanceID uuid.UUID
}

// New creates a Cache with DefaultConfig.
func New() *Cache {
	return WithConfig(DefaultConfig())
}

// WithConfig creates a Cache with custom sizing/eviction behavior.
func WithConfig(cfg Config) *Cache {
	return &Cache{
		blocks:     make(map[blockKey]*cachedNode),
		docs:       make(map[uint64]*cachedDocument),
		config:     cfg,
		instanceID: uuid.New(),
	}
}

// ContentHash hashes content for use as a cache key, the Go equivalent of
// the original's calculate_hash (a stable, non-cryptographic 64-bit hash).
func ContentHash(content []byte) uint64 {
	h := fnv.New64a()
	h.Write(content)
	return h.Sum64()
}

// GetDocument looks up a previously cached parse by content hash, honoring
// the configured max age. It reports a miss both when no entry exists and
// when the entry has expired.
func (c *Cache) GetDocument(hash uint64) (*ast.Document, []diag.Diagnostic, bool) {
	c.totalRequests.Add(1)

	c.mu.RLock()
	entry, ok := c.docs[hash]
	c.mu.RUnlock()

	if !ok || time.Since(entry.createdAt) >= c.config.MaxAge {
		c.misses.Add(1)
		return nil, nil, false
	}
	c.hits.Add(1)
	return entry.doc, entry.diagnostics, true
}

// PutDocument installs a parsed document under its content hash, evicting
// the oldest entry first if the document cache has reached its 10-entry
// ceiling (the original hardcodes "keep only last 10 complete documents";
// carried unchanged since the spec doesn't call for document-count to be
// independently configurable).
func (c *Cache) PutDocument(hash uint64, doc *ast.Document, diagnostics []diag.Diagnostic) {
	const maxDocuments = 10

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.docs) >= maxDocuments {
		var oldestHash uint64
		var oldestAt time.Time
		first := true
		for h, e := range c.docs {
			if first || e.createdAt.Before(oldestAt) {
				oldestHash, oldestAt, first = h, e.createdAt, false
			}
		}
		if !first {
			delete(c.docs, oldestHash)
			c.evictions.Add(1)
		}
	}

	c.docs[hash] = &cachedDocument{doc: doc, diagnostics: diagnostics, createdAt: time.Now()}
}

// GetNode looks up a cached block-level node, touching its access stats on
// a hit. This is the substrate spec.md's cache component names
// ("block-level cache"); the facade may use it opportunistically for
// blocks a host has flagged as unchanged, independent of whether a given
// Parse call uses document-level or block-level caching.
func (c *Cache) GetNode(id BlockID, hash uint64) (*ast.Node, bool) {
	c.totalRequests.Add(1)

	key := blockKey{id: id, hash: hash}
	c.mu.Lock()
	entry, ok := c.blocks[key]
	if ok {
		entry.accessCount++
		entry.lastAccessed = time.Now()
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.node, true
}

// PutNode caches a block-level node, skipping nodes smaller than
// Config.MinCacheSize and evicting the least-recently-used entry first if
// the cache is at Config.MaxCachedNodes or adding sizeEstimate would push
// the cache's tracked memory usage past Config.MaxMemoryBytes.
func (c *Cache) PutNode(id BlockID, hash uint64, node *ast.Node, sizeEstimate int) {
	if sizeEstimate < c.config.MinCacheSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) >= c.config.MaxCachedNodes {
		c.evictLRULocked()
	}
	if c.config.MaxMemoryBytes > 0 {
		for c.memoryUsage+sizeEstimate > c.config.MaxMemoryBytes && len(c.blocks) > 0 {
			c.evictLRULocked()
		}
	}

	c.blocks[blockKey{id: id, hash: hash}] = &cachedNode{
		node:         node,
		hash:         hash,
		createdAt:    time.Now(),
		lastAccessed: time.Now(),
		accessCount:  1,
		sizeEstimate: sizeEstimate,
	}
	c.memoryUsage += sizeEstimate
}

// evictLRULocked removes the least-recently-accessed block entry. Callers
// must hold c.mu for writing.
func (c *Cache) evictLRULocked() {
	if len(c.blocks) == 0 {
		return
	}
	var oldestKey blockKey
	var oldestAt time.Time
	first := true
	for k, e := range c.blocks {
		if first || e.lastAccessed.Before(oldestAt) {
			oldestKey, oldestAt, first = k, e.lastAccessed, false
		}
	}
	if !first {
		c.memoryUsage -= c.blocks[oldestKey].sizeEstimate
		delete(c.blocks, oldestKey)
		c.evictions.Add(1)
	}
}

// InvalidateLines drops every cached block whose line range overlaps
// [startLine, endLine] and clears the whole document cache (an edit
// invalidates any document-level parse that covered it), matching the
// original's invalidate_lines.
func (c *Cache) InvalidateLines(startLine, endLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.blocks {
		if k.id.OverlapsLines(startLine, endLine) {
			c.memoryUsage -= e.sizeEstimate
			delete(c.blocks, k)
		}
	}
	c.docs = make(map[uint64]*cachedDocument)
}

// Clear empties both caches and resets counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.blocks = make(map[blockKey]*cachedNode)
	c.docs = make(map[uint64]*cachedDocument)
	c.memoryUsage = 0
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.totalRequests.Store(0)
}

// Cleanup removes block cache entries older than Config.MaxAge, a no-op
// when Config.EnableCleanup is false. Intended to be called periodically
// by a host's idle-time maintenance loop; the engine never schedules this
// itself (spec.md §5: no background goroutines owned by the engine).
func (c *Cache) Cleanup() {
	if !c.config.EnableCleanup {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.blocks {
		if now.Sub(e.createdAt) > c.config.MaxAge {
			c.memoryUsage -= e.sizeEstimate
			delete(c.blocks, k)
			c.evictions.Add(1)
		}
	}
	for h, e := range c.docs {
		if now.Sub(e.createdAt) > c.config.MaxAge {
			delete(c.docs, h)
		}
	}
}

// Stats returns a snapshot of the cache's current performance counters,
// including MemoryUsage, the sum of sizeEstimate across all live
// block-level entries, tracked and enforced against Config.MaxMemoryBytes
// in PutNode.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	cacheSize := len(c.blocks)
	memoryUsage := c.memoryUsage
	c.mu.RUnlock()

	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Evictions:     c.evictions.Load(),
		TotalRequests: c.totalRequests.Load(),
		MemoryUsage:   memoryUsage,
		CacheSize:     cacheSize,
		InstanceID:    c.instanceID,
	}
}
