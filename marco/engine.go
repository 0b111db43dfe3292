// Package marco is the engine facade consumed by an embedding GUI editor
// and its LSP-style highlighter: it wires the block parser, inline parser,
// cache, HTML renderer, and highlight provider behind the single Engine
// API described in the specification, mirroring how the teacher's main.go
// wires its own parser/renderer pipeline behind a small set of top-level
// calls.
package marco

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/blockparser"
	"github.com/ranrar/marco/cache"
	"github.com/ranrar/marco/diag"
	"github.com/ranrar/marco/highlight"
	"github.com/ranrar/marco/htmlrender"
)

// Diagnostic is re-exported so callers never need to import diag directly.
type Diagnostic = diag.Diagnostic

// RenderOptions is re-exported so callers never need to import htmlrender
// directly.
type RenderOptions = htmlrender.RenderOptions

// DefaultRenderOptions matches htmlrender.DefaultRenderOptions.
func DefaultRenderOptions() RenderOptions {
	return htmlrender.DefaultRenderOptions()
}

// optionsValidate is the shared validator instance for engine construction
// options, registered once at package init the same way AleutianLocal's
// datatypes package registers its own chatValidate singleton.
var optionsValidate *validator.Validate

func init() {
	optionsValidate = validator.New()
}

// engineConfig is the validated shape of an Engine's construction options.
// Tags are checked by optionsValidate before New returns, giving config
// construction the same declarative validation AleutianLocal applies to
// its request types.
type engineConfig struct {
	CacheConfig        cache.Config `validate:"required"`
	MaxBlockDepth      int          `validate:"gte=1,lte=1000"`
	MaxAdmonitionDepth int          `validate:"gte=1,lte=64"`
}

// Engine is the top-level entry point for parsing, caching, rendering, and
// highlighting Marco documents. The zero value is not usable; construct
// with New.
type Engine struct {
	parser *blockparser.Parser
	cache  *cache.Cache
	log    *slog.Logger
}

// Option configures an Engine at construction time.
type Option func(*engineConfig, *Engine)

// WithLogger overrides the engine's logger, defaulting to slog.Default()
// when unset. The engine never installs a process-global logger itself
// (spec.md §9: global state belongs to the host), so every log call goes
// through this instance.
func WithLogger(logger *slog.Logger) Option {
	return func(_ *engineConfig, e *Engine) { e.log = logger }
}

// WithCacheConfig overrides the document/block cache's sizing and eviction
// behavior.
func WithCacheConfig(cfg cache.Config) Option {
	return func(cc *engineConfig, _ *Engine) { cc.CacheConfig = cfg }
}

// WithMaxBlockDepth overrides the general block-nesting recursion ceiling
// (spec.md §5: default 100).
func WithMaxBlockDepth(n int) Option {
	return func(cc *engineConfig, _ *Engine) { cc.MaxBlockDepth = n }
}

// WithMaxAdmonitionDepth overrides the admonition-nesting recursion
// ceiling (spec.md §5: default 16).
func WithMaxAdmonitionDepth(n int) Option {
	return func(cc *engineConfig, _ *Engine) { cc.MaxAdmonitionDepth = n }
}

// New constructs an Engine. It panics only if a caller supplies an Option
// producing an invalid engineConfig (e.g. a negative depth ceiling) —
// every other failure mode in this package is a recoverable Diagnostic,
// never a panic, but construction-time misconfiguration is a programmer
// error the way a bad struct tag is in AleutianLocal's validated request
// types. Hosts that build engineConfig from untrusted or user-supplied
// config (rather than from Options fixed at compile time) should use
// NewEngine instead.
func New(opts ...Option) *Engine {
	e, err := NewEngine(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// NewEngine is the non-panicking form of New, returning a validation error
// instead of panicking when an Option produces an invalid engineConfig.
// Prefer this over New when options are derived from external
// configuration (a config file, request parameters) rather than literals
// the caller controls.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{log: slog.Default()}
	cc := &engineConfig{
		CacheConfig:        cache.DefaultConfig(),
		MaxBlockDepth:      blockparser.DefaultMaxBlockDepth,
		MaxAdmonitionDepth: blockparser.DefaultMaxAdmonitionDepth,
	}
	for _, opt := range opts {
		opt(cc, e)
	}
	if err := optionsValidate.Struct(cc); err != nil {
		return nil, fmt.Errorf("marco: invalid engine options: %w", err)
	}

	e.parser = blockparser.New(
		blockparser.WithMaxBlockDepth(cc.MaxBlockDepth),
		blockparser.WithMaxAdmonitionDepth(cc.MaxAdmonitionDepth),
	)
	e.cache = cache.WithConfig(cc.CacheConfig)
	return e, nil
}

// Parse recognizes source's block and inline structure and returns the
// resulting Document. Parse never fails outright; recoverable grammar
// misses are attached as Diagnostics, and err is non-nil only when source
// cannot be treated as UTF-8 Markdown at all (currently unreachable, since
// every byte sequence is a syntactically valid — if degenerate —
// CommonMark document; kept in the signature to match spec.md §6.1's
// `Result<Document, Diagnostic[]>` shape for a host that wants to treat
// diagnostics of LevelError as failures).
func (e *Engine) Parse(source []byte) (*ast.Document, []Diagnostic, error) {
	doc, bag := e.parser.Parse(source)
	diags := bag.All()
	e.log.Debug("marco: parsed document", "bytes", len(source), "diagnostics", len(diags))
	return doc, diags, nil
}

// ParseCached behaves like Parse but consults the document cache first,
// keyed by source's content hash, and installs a fresh parse on a miss.
func (e *Engine) ParseCached(source []byte) (*ast.Document, []Diagnostic) {
	hash := cache.ContentHash(source)
	if doc, diags, ok := e.cache.GetDocument(hash); ok {
		e.log.Debug("marco: cache hit", "hash", hash)
		return doc, diags
	}
	doc, diags, _ := e.Parse(source)
	e.cache.PutDocument(hash, doc, diags)
	return doc, diags
}

// Render renders doc to HTML under opts. Render never fails; err is
// always nil and is kept in the signature to match spec.md §6.1.
func (e *Engine) Render(doc *ast.Document, opts RenderOptions) (string, error) {
	bag := &diag.Bag{}
	html := htmlrender.Render(doc, opts, bag)
	if len(bag.All()) > 0 {
		e.log.Warn("marco: render produced diagnostics", "count", len(bag.All()))
	}
	return html, nil
}

// ParseToHTML parses source and renders it to HTML in one call.
func (e *Engine) ParseToHTML(source []byte, opts RenderOptions) (string, []Diagnostic, error) {
	doc, diags, err := e.Parse(source)
	if err != nil {
		return "", diags, err
	}
	html, err := e.Render(doc, opts)
	return html, diags, err
}

// ParseToHTMLCached behaves like ParseToHTML but consults the document
// cache first, the same way ParseCached does for Parse.
func (e *Engine) ParseToHTMLCached(source []byte, opts RenderOptions) (string, []Diagnostic) {
	doc, diags := e.ParseCached(source)
	html, _ := e.Render(doc, opts)
	return html, diags
}

// ComputeHighlights walks doc and returns its editor-styling highlights.
func (e *Engine) ComputeHighlights(doc *ast.Document) []highlight.Highlight {
	return highlight.Compute(doc)
}

// InvalidateLines drops any cached block or document state overlapping
// [start, end], intended to be called by a host editor after a buffer
// edit so stale spans are never served from the cache.
func (e *Engine) InvalidateLines(start, end uint32) {
	e.cache.InvalidateLines(start, end)
}

// CacheStats returns a snapshot of the engine's cache performance
// counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}
