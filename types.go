package docfold

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// cssPixelsPerInch is Chrome's CSS pixel density for print layout.
const cssPixelsPerInch = 96.0

// pdfPointsPerInch is the PDF user-space unit density.
const pdfPointsPerInch = 72.0

// paperDimensions maps page size names to width/height in inches (portrait).
var paperDimensions = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values (A4 portrait).
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperDimensions[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// paperSize returns the paper width and height in inches, orientation applied.
// Nil settings resolve to the defaults.
func (p *PageSettings) paperSize() (width, height float64) {
	resolved := p
	if resolved == nil {
		resolved = DefaultPageSettings()
	}
	dims, ok := paperDimensions[strings.ToLower(resolved.Size)]
	if !ok {
		dims = paperDimensions[PageSizeA4]
	}
	width, height = dims[0], dims[1]
	if strings.ToLower(resolved.Orientation) == OrientationLandscape {
		width, height = height, width
	}
	return width, height
}

// margin returns the uniform margin in inches, defaulted when unset.
func (p *PageSettings) margin() float64 {
	if p == nil || p.Margin == 0 {
		return DefaultMargin
	}
	return p.Margin
}

// PrintableHeightPx returns the height of one page's content area in CSS
// pixels. This is the divisor the page locator uses to map a heading's
// offset in the continuous layout to a page index. It assumes uniform page
// height; reflow introduced by pagination itself is ignored, which is
// acceptable because bookmarks only need to land near the heading.
func (p *PageSettings) PrintableHeightPx() float64 {
	_, height := p.paperSize()
	return (height - 2*p.margin()) * cssPixelsPerInch
}

// PageTopPoints returns the top of a page in PDF user-space coordinates
// (bottom-up, so the top edge is the paper height in points). Bookmark
// destinations scroll to this Y.
func (p *PageSettings) PageTopPoints() float64 {
	_, height := p.paperSize()
	return height * pdfPointsPerInch
}

// Input contains conversion parameters for a single document.
type Input struct {
	Markdown  string        // Markdown content (required)
	Title     string        // Document title; falls back to "Document"
	CSS       string        // Extra user CSS appended after the style (optional)
	Page      *PageSettings // Page settings (optional, nil = defaults)
	Footer    *Footer       // Footer config (optional, nil = "page N of M")
	HTMLOnly  bool          // Skip PDF generation, return HTML only
	NoOutline bool          // Skip bookmark synthesis
}

// Footer configures the page footer baked into each rendered page.
type Footer struct {
	Position       string // "left", "center", "right" (default: "center")
	ShowPageNumber bool   // renders "page N of M"
	Text           string // free-form text next to the page number
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means the default footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPos, f.Position)
	}
}

// Engine backend names.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Style selects document appearance. It parameterizes what used to be two
// separate converter variants: CSS theme, heading numbering, code
// highlighting strategy.
type Style struct {
	Name           string // embedded style name: "default", "technical"
	CodeTheme      string // chroma style for server-side highlighting (default "github")
	HeadingNumbers bool   // CSS-counter numbering for h2..h4
	BrowserCode    bool   // highlight fenced code in the browser (highlight.js)
}

// DefaultStyle returns the default document style.
func DefaultStyle() Style {
	return Style{Name: "default", CodeTheme: "github"}
}

// HeadingPosition records where a heading anchor landed in the continuous
// (pre-pagination) rendered layout.
type HeadingPosition struct {
	AnchorID string
	OffsetPx float64
}

// Result holds the output of one conversion.
type Result struct {
	PDF      []byte // final document, outline attached (nil when HTMLOnly)
	HTML     []byte // intermediate HTML, useful for debugging
	Headings int    // number of headings captured from the source
	Pages    int    // page count of the rendered document (0 when HTMLOnly)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	renderWait time.Duration
	engine     string
	style      Style
	browserBin string
	enableMath bool
	noSandbox  bool
}

// Defaults for the conversion budget and the render-complete wait.
const (
	defaultTimeout    = 60 * time.Second
	defaultRenderWait = 45 * time.Second
)

// WithTimeout sets the whole-run conversion budget.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docfold: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithRenderWait bounds the wait for the in-page render-complete signal.
// Panics if d <= 0.
func WithRenderWait(d time.Duration) Option {
	if d <= 0 {
		panic("docfold: WithRenderWait duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.renderWait = d
	}
}

// WithEngine selects the rendering engine backend: EngineRod (default)
// or EngineChromedp. Validated at NewConverter time.
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithStyle sets the document style.
func WithStyle(s Style) Option {
	return func(c *Converter) {
		c.cfg.style = s
	}
}

// WithBrowserBin points the engine at a pre-installed browser binary
// (Docker/CI environments). Implies no-sandbox.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the browser sandbox. Required in most container
// environments where the engine runs as root.
func WithNoSandbox(disabled bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disabled
	}
}

// WithMath enables MathJax typesetting for $...$ and $$...$$ segments.
// The render-complete signal then also waits for typesetting to finish.
func WithMath(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.enableMath = enabled
	}
}
