package pipeline

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer renders fenced and indented code blocks for in-browser
// highlighting: content escaped with EscapeCode, language carried as an
// hljs-compatible class. Registered only when the browserCode pipeline
// variant is active; otherwise chroma's renderer handles code blocks.
type codeBlockRenderer struct{}

func newCodeBlockRenderer() *codeBlockRenderer {
	return &codeBlockRenderer{}
}

// RegisterFuncs registers rendering functions for code block kinds.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		_, _ = w.WriteString(`<pre><code class="hljs`)
		if lang := n.Language(source); lang != nil {
			_, _ = w.WriteString(" language-")
			_, _ = w.WriteString(EscapeCode(string(lang)))
		}
		_, _ = w.WriteString(`">`)
		r.writeLines(w, source, n)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<pre><code class="hljs">`)
		r.writeLines(w, source, node)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) writeLines(w util.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.WriteString(EscapeCode(string(line.Value(source))))
	}
}
