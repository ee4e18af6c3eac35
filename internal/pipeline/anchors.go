package pipeline

import (
	"regexp"
	"strings"
)

// nonWordRun matches runs of characters that are not letters, digits or
// underscore. Unicode classes keep non-ASCII headings addressable.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// AnchorID derives a heading's anchor id from its raw text: lower-cased,
// every run of non-word characters collapsed to a single dash.
//
// Headings producing the same id are NOT de-duplicated; the later heading
// overwrites the anchor target in the rendered DOM and only one of the two
// is locatable. Documented limitation, kept as given behavior.
func AnchorID(text string) string {
	return nonWordRun.ReplaceAllString(strings.ToLower(text), "-")
}

// codeEscaper replaces the five HTML-sensitive characters in a single pass.
var codeEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeCode escapes fenced code content for embedding in HTML.
func EscapeCode(s string) string {
	return codeEscaper.Replace(s)
}
