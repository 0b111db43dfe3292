// Package diag defines the Diagnostic type surfaced by every recoverable
// failure mode in the engine (grammar misses, validation failures, depth
// limits, cache faults, internal invariant violations). No condition the
// engine can recover from is ever a Go error returned up the call stack;
// it is always a Diagnostic attached to the result, per the propagation
// policy in the specification's error handling design.
package diag

import "github.com/ranrar/marco/span"

// Level classifies how serious a Diagnostic is. Nothing in the engine
// treats Level as fatal — it is purely informational for the host.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Diagnostic describes one recoverable condition encountered during
// parsing or rendering.
type Diagnostic struct {
	Level   Level
	Message string
	Span    span.Span
	// Rule names the grammar rule or validation check that produced the
	// diagnostic, when applicable (e.g. "fenced_code_block", "link_url").
	Rule string
}

// Bag accumulates diagnostics during a single parse or render pass. It is
// not safe for concurrent writers; each parse owns its own Bag.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(level Level, message string, sp span.Span, rule string) {
	b.items = append(b.items, Diagnostic{Level: level, Message: message, Span: sp, Rule: rule})
}

// Warn is shorthand for Add(LevelWarning, ...).
func (b *Bag) Warn(message string, sp span.Span, rule string) {
	b.Add(LevelWarning, message, sp, rule)
}

// Info is shorthand for Add(LevelInfo, ...).
func (b *Bag) Info(message string, sp span.Span, rule string) {
	b.Add(LevelInfo, message, sp, rule)
}

// Err is shorthand for Add(LevelError, ...).
func (b *Bag) Err(message string, sp span.Span, rule string) {
	b.Add(LevelError, message, sp, rule)
}

// All returns the accumulated diagnostics in emission order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// Extend appends another bag's diagnostics onto b, used when a nested
// parse (admonition content, re-parsed footnote content) produces its own
// bag that must be folded into the parent's.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}
