/*
Package blockparser implements the engine's phase-1 block grammar and
phase-2 block AST builder (components B and C of the engine design).

# ARCHITECTURE OVERVIEW

Parsing proceeds in two logical phases over the same recursive-descent
pass:

Phase 1: GRAMMAR (recognize* functions in this package)
  - Recognizes CommonMark + GFM + Marco block structures line-by-line:
    headings, lists, blockquotes, code blocks, tables, HTML blocks,
    reference definitions, admonitions.
  - Operates on line windows addressed by byte offset into whatever text
    is currently being scanned — the original source at the top level, or
    a synthetic dedented string when recursing into a list item.

Phase 2: AST BUILDING (inside the same recognize* functions, with the
dedent/remap helpers in dedent.go and container.go)
  - Converts a recognized construct into a typed *ast.Node, computing its
    span, dedenting continuation lines, stripping task checkboxes, and
    collecting reference/footnote definitions into the document's side
    tables.

KEY DESIGN PRINCIPLES
  - Never parse markdown structure ad hoc from within the inline parser or
    the renderer — block structure is recognized exactly once, here.
  - Spans are always computed against the ORIGINAL document source, even
    when a construct (list item, admonition body) was scanned from a
    synthetic dedented string; see dedent.go for how offsets are mapped
    back.
  - Recursion (blockquotes, lists, admonitions) is bounded by a depth
    counter threaded through blockContext, per the spec's recursion-ceiling
    requirement (max 16 for admonitions, max 100 for general block
    nesting).
  - Grammar failures never abort parsing: the orchestrator consults a
    small fallback table (fallback.go) and degrades a construct to a more
    general rule (heading -> paragraph -> text) while attaching a warning
    Diagnostic, per the spec's error-recovery model.

DEPENDENCY USAGE
  - span: byte-accurate position tracking for every recognized construct.
  - ast: typed node tree and document side tables.
  - diag: the Diagnostic bag threaded through every recognizer.

LIMITATIONS (documented honestly rather than silently mishandled)
  - Leading indentation containing tab characters immediately before a
    blockquote `>` marker is approximated: the engine treats `>` as
    starting at the first non-whitespace byte without expanding tabs
    column-by-column ahead of the marker. This matches the overwhelming
    majority of real-world documents (which indent blockquotes with
    spaces) but can mis-measure a handful of tab-indented edge cases.
  - Lazy continuation of blockquotes/list items across blank lines follows
    the common-case CommonMark behavior (a non-blank line immediately
    following open paragraph content, with no other block-starting
    syntax, continues that paragraph) but does not implement every
    interaction between lazy continuation and nested container closing
    described in the CommonMark spec's harder examples.
*/
package blockparser
