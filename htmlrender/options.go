package htmlrender

// RenderOptions configures Render's output shape, the recognized-key set
// from spec.md §6.1: {xhtml, safe, source_positions, gfm_tables,
// task_lists}.
type RenderOptions struct {
	// XHTML emits self-closing forms ("<br />" instead of "<br>").
	XHTML bool
	// Safe drops dangerous URL schemes and raw HTML.
	Safe bool
	// SourcePositions emits data-sourcepos="L:C-L:C" on block elements.
	SourcePositions bool
	// GFMTables enables <thead>/<tbody> table rendering with alignment
	// styles. Off renders table source as a plain paragraph fallback.
	GFMTables bool
	// TaskLists enables the disabled-checkbox rendering of task list
	// items. Off renders task items as ordinary list items.
	TaskLists bool
}

// DefaultRenderOptions matches spec.md §6.1's documented default:
// {false, false, false, true, true}.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{GFMTables: true, TaskLists: true}
}

// safeSchemes is the allowlist consulted in Safe mode, per spec.md §4.G.
var safeSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"xmpp":   true,
	"ftp":    true,
	"irc":    true,
}
