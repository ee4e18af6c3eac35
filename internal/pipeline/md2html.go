package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrMarkdownConvert indicates Markdown to HTML conversion failed.
var ErrMarkdownConvert = errors.New("markdown conversion failed")

// Heading is one captured document heading, in document order.
type Heading struct {
	Level    int    // 1..6
	Text     string // raw heading text, markup stripped
	AnchorID string // derived via AnchorID
	Index    int    // 0-based position among the document's headings
}

// HTMLConverter abstracts Markdown to HTML conversion with heading capture.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, []Heading, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark.
// The heading index is returned per call, never accumulated in shared
// state, so concurrent and repeated conversions cannot leak headings
// across documents.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions.
//
// When browserCode is false (the default pipeline), fenced code is
// highlighted server-side by chroma using CSS classes. When true, fenced
// code is emitted escaped with hljs-compatible classes and highlighting
// happens in the layout engine, gated by the render-complete signal.
func NewGoldmarkConverter(browserCode bool) *GoldmarkConverter {
	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	rendererOpts := []renderer.Option{
		html.WithHardWraps(), // Treat newlines as <br>
		html.WithXHTML(),     // Self-closing tags
	}

	if browserCode {
		rendererOpts = append(rendererOpts,
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeBlockRenderer(), 100),
			),
		)
	} else {
		exts = append(exts,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // classes keep HTML small; CSS is generated separately
				),
			),
		)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML body fragment and returns
// the headings captured while converting, in document order. Supports
// context cancellation via goroutine + select pattern since goldmark
// doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, []Heading, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	type result struct {
		html     string
		headings []Heading
		err      error
	}

	done := make(chan result, 1)

	go func() {
		source := []byte(content)
		doc := c.md.Parser().Parse(text.NewReader(source))

		headings, err := captureHeadings(doc, source)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConvert, err)}
			return
		}

		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConvert, err)}
			return
		}
		done <- result{html: buf.String(), headings: headings}
	}()

	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	case r := <-done:
		return r.html, r.headings, r.err
	}
}

// captureHeadings walks the parsed document, records every heading in
// order, and stamps each heading node with its derived anchor id so the
// rendered HTML carries the same ids the layout engine will be asked to
// measure.
func captureHeadings(doc ast.Node, source []byte) ([]Heading, error) {
	var headings []Heading

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		text := headingText(h, source)
		anchor := AnchorID(text)
		h.SetAttribute([]byte("id"), []byte(anchor))

		headings = append(headings, Heading{
			Level:    h.Level,
			Text:     text,
			AnchorID: anchor,
			Index:    len(headings),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return headings, nil
}

// headingText extracts the plain text of a heading, dropping inline markup.
func headingText(heading ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
