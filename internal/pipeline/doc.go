// Package pipeline implements the HTML side of the conversion pipeline:
// Markdown rendering with heading capture, anchor id derivation, and
// assembly of the standalone HTML document handed to the layout engine.
package pipeline
