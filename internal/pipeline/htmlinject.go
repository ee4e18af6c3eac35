package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ReadyFlag is the window property the in-page script sets once rendering
// has settled. Engine drivers poll ReadyExpression until it is true or
// their wait budget expires.
const ReadyFlag = "__docfoldReady"

// ReadyExpression is the JavaScript expression engine drivers poll.
const ReadyExpression = "window." + ReadyFlag + " === true"

// settleDelayMs gives layout one reflow pass after the last async
// typesetting promise resolves before the flag flips.
const settleDelayMs = 150

// readyScript flags render completion. It runs on window load, after
// deferred scripts (MathJax, highlight.js) have executed, and waits for
// fonts, math typesetting and in-browser highlighting before arming the
// settle delay. Failure of any of them still flips the flag: a missing
// CDN must degrade to an unstyled render, not a hung conversion.
var readyScript = `<script>
window.` + ReadyFlag + ` = false;
window.addEventListener("load", function () {
  function done() { setTimeout(function () { window.` + ReadyFlag + ` = true; }, ` + fmt.Sprint(settleDelayMs) + `); }
  var waits = [];
  if (document.fonts && document.fonts.ready) {
    waits.push(document.fonts.ready);
  }
  if (window.hljs) {
    document.querySelectorAll("pre code").forEach(function (el) {
      window.hljs.highlightElement(el);
    });
  }
  if (window.MathJax && window.MathJax.startup && window.MathJax.startup.promise) {
    waits.push(window.MathJax.startup.promise);
  }
  Promise.all(waits).then(done, done);
});
</script>`

// mathJaxConfig must precede the MathJax loader script.
const mathJaxConfig = `<script>
window.MathJax = {
  tex: { inlineMath: [["$", "$"]], displayMath: [["$$", "$$"]] },
  svg: { fontCache: "global" }
};
</script>
<script defer src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"></script>`

// highlightJSInclude loads highlight.js and a print-friendly theme for the
// in-browser highlighting pipeline variant.
const highlightJSInclude = `<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/github.min.css">
<script defer src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"></script>`

// inlineMath matches $...$ spans on a single line; displayMath matches $$ blocks.
var (
	inlineMath  = regexp.MustCompile(`\$[^$\n]+\$`)
	displayMath = regexp.MustCompile(`\$\$`)
)

// ContainsMath reports whether the Markdown source appears to carry TeX
// math segments worth a MathJax include.
func ContainsMath(markdown string) bool {
	return displayMath.MatchString(markdown) || inlineMath.MatchString(markdown)
}

// DocumentOptions configures standalone HTML document assembly.
type DocumentOptions struct {
	Title        string // document title; empty falls back to "Document"
	StyleCSS     string // theme CSS, inlined (layout-critical rules must be here)
	ExtraCSS     string // user CSS, inlined after the theme
	HighlightCSS string // chroma class CSS for server-side highlighting
	MathJax      bool   // include MathJax and gate readiness on typesetting
	HighlightJS  bool   // include highlight.js (browserCode pipeline variant)
}

// BuildDocument wraps an HTML body fragment in a complete HTML5 document:
// inlined stylesheet, optional MathJax/highlight.js includes, and the
// readiness script. All layout-critical CSS is inlined so the first paint
// already has page-break and font rules; there is no external stylesheet
// whose late arrival could shift measured offsets.
func BuildDocument(fragment string, opts DocumentOptions) string {
	title := opts.Title
	if title == "" {
		title = "Document"
	}

	var css strings.Builder
	css.WriteString(opts.StyleCSS)
	if opts.HighlightCSS != "" {
		css.WriteString("\n")
		css.WriteString(opts.HighlightCSS)
	}
	if opts.ExtraCSS != "" {
		css.WriteString("\n")
		css.WriteString(opts.ExtraCSS)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>")
	b.WriteString(sanitizeCSS(css.String()))
	b.WriteString("</style>\n")
	if opts.MathJax {
		b.WriteString(mathJaxConfig)
		b.WriteString("\n")
	}
	if opts.HighlightJS {
		b.WriteString(highlightJSInclude)
		b.WriteString("\n")
	}
	b.WriteString(readyScript)
	b.WriteString("\n</head>\n<body>\n")
	b.WriteString(fragment)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HighlightCSS generates the CSS for chroma's highlight classes using the
// named chroma style. Unknown names fall back to chroma's default style.
func HighlightCSS(theme string) (string, error) {
	style := styles.Get(theme)
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("generating highlight CSS: %w", err)
	}
	return buf.String(), nil
}
