// Package spec embeds the fixture files used to exercise the engine
// against a representative subset of the CommonMark spec examples and
// Marco's own GFM/extension examples, mirroring the embedded-test-data
// split visible in original_source's commonmark_tests.rs/lsp_tests.rs.
package spec

import _ "embed"

//go:embed commonmark.json
var CommonMarkJSON []byte

//go:embed extra.json
var ExtraJSON []byte
