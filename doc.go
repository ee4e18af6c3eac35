// Package docfold converts Markdown documents to paginated PDFs with
// working outline bookmarks derived from the document's headings.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := docfold.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, docfold.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Title:    "Hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// # Conversion Pipeline
//
// Each conversion runs four stages:
//
//  1. Markdown to HTML via Goldmark, capturing a heading index
//     (text, level, anchor id) in document order.
//  2. Layout in an isolated headless Chrome instance. The page carries a
//     script that flags render completion only after fonts, math
//     typesetting and syntax highlighting settle; the driver waits on that
//     flag with a bounded timeout, then measures the vertical offset of
//     every heading anchor and prints to a fixed page geometry.
//  3. Mapping each heading offset to a page index of the paginated output.
//  4. Outline synthesis: bookmark nodes are written directly into the
//     PDF's object graph (one indirect object per heading, sibling-linked
//     under a root outline node) and registered in the document catalog.
//
// A document without headings is emitted unchanged, with no outline
// attached. The caller always receives either one complete, valid PDF or
// an error carrying one of the package's sentinel kinds, never a partially
// bookmarked document.
//
// # Parallel Processing
//
// Conversions are independent; the only shared resource is browser
// capacity (each instance costs roughly 200-300MB). Use ConverterPool to
// bound concurrency:
//
//	pool := docfold.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The default go-rod backend downloads
// a managed Chromium on first run; set ROD_BROWSER_BIN or use
// WithBrowserBin for a pre-installed binary (containers, CI). The chromedp
// backend (WithEngine) uses the system Chrome.
package docfold
