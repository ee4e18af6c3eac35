package docfold

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/docfold/docfold/internal/fileutil"
	"github.com/docfold/docfold/internal/pipeline"
	"github.com/docfold/docfold/internal/process"
)

// rodEngine drives headless Chrome through go-rod. Every Render call
// launches its own browser instance and kills it on return, so a hung
// render never leaks a process and concurrent conversions stay isolated.
// Rod downloads a managed Chromium on first run if none is configured.
type rodEngine struct {
	browserBin string
	noSandbox  bool
}

var _ renderEngine = (*rodEngine)(nil)

func newRodEngine(browserBin string, noSandbox bool) *rodEngine {
	return &rodEngine{browserBin: browserBin, noSandbox: noSandbox}
}

// Render loads the HTML, waits for the in-page render-complete flag,
// measures the heading anchors, and prints to the requested geometry.
func (e *rodEngine) Render(ctx context.Context, htmlContent string, req *renderRequest) (*renderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := e.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if e.noSandbox || bin != "" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineLaunch, err)
	}
	// The instance is per-conversion; kill it no matter how Render exits.
	// KillProcessGroup sweeps child processes a plain kill can orphan.
	defer func() {
		pid := l.PID()
		l.Kill()
		if pid > 0 {
			process.KillProcessGroup(pid)
		}
	}()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineLaunch, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	defer func() { _ = page.Close() }()

	wait, err := boundedWait(ctx, req.Wait)
	if err != nil {
		return nil, err
	}

	if err := page.Timeout(wait).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	// Single suspension point: poll the flag the page script sets after
	// fonts, math typesetting and highlighting settle. Bounded; never
	// blocks indefinitely.
	if err := page.Timeout(wait).Wait(rod.Eval("() => " + pipeline.ReadyExpression)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderTimeout, err)
	}

	positions, err := e.measureAnchors(page, req.Anchors)
	if err != nil {
		return nil, err
	}

	reader, err := page.PDF(e.buildPrintOptions(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPageRender, err)
	}

	return &renderResult{PDF: pdf, Positions: positions}, nil
}

// measureAnchors runs one Eval for all anchors. Individual anchors missing
// from the DOM are skipped by the script; only a failed evaluation is an
// error.
func (e *rodEngine) measureAnchors(page *rod.Page, anchors []string) ([]HeadingPosition, error) {
	if len(anchors) == 0 {
		return nil, nil
	}

	res, err := page.Eval(measureJS, anchors)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring anchors: %v", ErrPageRender, err)
	}

	raw := make([]measuredPosition, 0, len(anchors))
	for _, item := range res.Value.Arr() {
		raw = append(raw, measuredPosition{
			ID:  item.Get("id").Str(),
			Top: item.Get("top").Num(),
		})
	}
	return toPositions(raw), nil
}

// buildPrintOptions constructs proto.PagePrintToPDF for the request.
func (e *rodEngine) buildPrintOptions(req *renderRequest) *proto.PagePrintToPDF {
	width, height, marginTop, marginBottom, marginSide := pageGeometry(req)

	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(width),
		PaperHeight:         floatPtr(height),
		MarginTop:           floatPtr(marginTop),
		MarginBottom:        floatPtr(marginBottom),
		MarginLeft:          floatPtr(marginSide),
		MarginRight:         floatPtr(marginSide),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>", // Empty header
		FooterTemplate:      buildFooterTemplate(req.Footer),
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
