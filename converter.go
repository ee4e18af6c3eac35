package docfold

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/docfold/docfold/internal/assets"
	"github.com/docfold/docfold/internal/outline"
	"github.com/docfold/docfold/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ renderEngine           = (*rodEngine)(nil)
	_ renderEngine           = (*chromedpEngine)(nil)
)

// Phase names one state of a conversion's lifecycle. Each run moves
// Pending → Rendering → Measuring → Synthesizing → Done, or to Failed
// from whichever phase raised the error.
type Phase string

// Conversion phases.
const (
	PhasePending      Phase = "pending"
	PhaseRendering    Phase = "rendering"
	PhaseMeasuring    Phase = "measuring"
	PhaseSynthesizing Phase = "synthesizing"
	PhaseDone         Phase = "done"
	PhaseFailed       Phase = "failed"
)

// conversion tracks one run through the pipeline state machine. Each run
// owns its conversion exclusively; no locking needed.
type conversion struct {
	phase Phase
}

func (c *conversion) advance(next Phase) {
	c.phase = next
}

// Converter orchestrates the Markdown-to-PDF pipeline. Create with
// NewConverter, run conversions with Convert, Close when done. A
// Converter is safe for sequential reuse; for parallel batches use
// ConverterPool, one Converter per in-flight conversion.
type Converter struct {
	cfg           converterConfig
	htmlConverter pipeline.HTMLConverter
	engine        renderEngine
	styleCSS      string
	highlightCSS  string
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithEngine,
// WithStyle). Returns an error for unknown engines or styles.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			renderWait: defaultRenderWait,
			engine:     EngineRod,
			style:      DefaultStyle(),
			enableMath: true,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	styleCSS, err := assets.LoadStyle(c.cfg.style.Name)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", c.cfg.style.Name, err)
	}
	c.styleCSS = styleCSS
	if c.cfg.style.HeadingNumbers {
		c.styleCSS += buildHeadingNumbersCSS()
	}

	// Server-side highlighting emits chroma classes; their CSS must ship
	// inline with the document.
	if !c.cfg.style.BrowserCode {
		hl, err := pipeline.HighlightCSS(c.cfg.style.CodeTheme)
		if err != nil {
			return nil, err
		}
		c.highlightCSS = hl
	}

	// Create pipeline stages if not injected (e.g., by tests)
	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter(c.cfg.style.BrowserCode)
	}
	if c.engine == nil {
		switch c.cfg.engine {
		case EngineRod:
			c.engine = newRodEngine(c.cfg.browserBin, c.cfg.noSandbox)
		case EngineChromedp:
			c.engine = newChromedpEngine(c.cfg.browserBin, c.cfg.noSandbox)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, c.cfg.engine)
		}
	}

	return c, nil
}

// Convert runs one full conversion within the configured wall-clock
// budget. On success the result carries the final PDF with its outline
// attached; on failure the caller gets exactly one error wrapping the
// originating kind and no partial output. Recovers from internal panics
// so they surface as errors instead of crashing batch callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	conv := &conversion{phase: PhasePending}
	result, err = c.run(ctx, conv, input)
	if err != nil {
		conv.advance(PhaseFailed)
		return nil, c.classify(ctx, conv, err)
	}
	conv.advance(PhaseDone)
	return result, nil
}

// run drives the pipeline stages in order.
func (c *Converter) run(ctx context.Context, conv *conversion, input Input) (*Result, error) {
	conv.advance(PhaseRendering)
	fragment, headings, err := c.htmlConverter.ToHTML(ctx, input.Markdown)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}

	useMath := c.cfg.enableMath && pipeline.ContainsMath(input.Markdown)
	htmlDoc := pipeline.BuildDocument(fragment, pipeline.DocumentOptions{
		Title:        input.Title,
		StyleCSS:     c.styleCSS,
		ExtraCSS:     input.CSS,
		HighlightCSS: c.highlightCSS,
		MathJax:      useMath,
		HighlightJS:  c.cfg.style.BrowserCode,
	})

	if input.HTMLOnly {
		return &Result{HTML: []byte(htmlDoc), Headings: len(headings)}, nil
	}

	conv.advance(PhaseMeasuring)
	rendered, err := c.engine.Render(ctx, htmlDoc, &renderRequest{
		Page:    input.Page,
		Footer:  input.Footer,
		Anchors: anchorIDs(headings),
		Wait:    c.cfg.renderWait,
	})
	if err != nil {
		return nil, err
	}

	conv.advance(PhaseSynthesizing)
	pdf, pages, err := c.synthesize(input, headings, rendered)
	if err != nil {
		return nil, err
	}

	return &Result{
		PDF:      pdf,
		HTML:     []byte(htmlDoc),
		Headings: len(headings),
		Pages:    pages,
	}, nil
}

// synthesize maps measured headings to pages and attaches the outline.
func (c *Converter) synthesize(input Input, headings []pipeline.Heading, rendered *renderResult) ([]byte, int, error) {
	pages, err := outline.PageCount(rendered.PDF)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if input.NoOutline {
		return rendered.PDF, pages, nil
	}

	entries := buildEntries(headings, rendered.Positions, input.Page, pages)
	pdf, err := outline.Attach(rendered.PDF, entries)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrOutlineBuild, err)
	}
	return pdf, pages, nil
}

// buildEntries pairs each captured heading with its measured position, in
// document order. Headings whose anchors vanished from the DOM are
// silently dropped. Each measured position is consumed at most once, so
// two headings colliding on one anchor id yield one bookmark (the
// locatable one), not two entries on the same target.
func buildEntries(headings []pipeline.Heading, positions []HeadingPosition, page *PageSettings, pageCount int) []outline.Entry {
	byAnchor := make(map[string]HeadingPosition, len(positions))
	for _, p := range positions {
		byAnchor[p.AnchorID] = p
	}

	pageHeightPx := page.PrintableHeightPx()
	pageTop := page.PageTopPoints()

	var entries []outline.Entry
	for _, h := range headings {
		pos, ok := byAnchor[h.AnchorID]
		if !ok {
			continue
		}
		delete(byAnchor, h.AnchorID)

		entries = append(entries, outline.Entry{
			Title:     h.Text,
			Level:     h.Level,
			PageIndex: outline.Locate(pos.OffsetPx, pageHeightPx, pageCount),
			Y:         pageTop,
		})
	}
	return entries
}

// anchorIDs extracts the anchor ids to measure, in document order.
func anchorIDs(headings []pipeline.Heading) []string {
	ids := make([]string, len(headings))
	for i, h := range headings {
		ids[i] = h.AnchorID
	}
	return ids
}

// classify finalizes a stage error. An expired whole-run budget forces
// the timeout kind regardless of which phase was active; otherwise the
// originating kind passes through unmasked, annotated with the phase.
func (c *Converter) classify(ctx context.Context, conv *conversion, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrRenderTimeout) {
		return fmt.Errorf("%w after %s: %v", ErrConversionTimeout, c.cfg.timeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrConversionTimeout, err)
	}
	return err
}

// validateInput checks that required fields are present and valid.
//
// This is the trust boundary for direct library users who build Input
// manually; the CLI validates its config earlier and converges here.
func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return nil
}

// ConvertFile reads a Markdown file and converts it, using the file name
// as the title fallback.
func (c *Converter) ConvertFile(ctx context.Context, path string, input Input) (*Result, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	input.Markdown = string(content)
	return c.Convert(ctx, input)
}

// Close releases converter resources. Engine instances are per-call, so
// there is nothing to tear down today; kept so pooled callers and future
// warm-engine backends have a stable lifecycle.
func (c *Converter) Close() error {
	return nil
}
