package docfold

import (
	"context"
	"errors"
	"fmt"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/docfold/docfold/internal/fileutil"
	"github.com/docfold/docfold/internal/pipeline"
)

// chromedpEngine is the alternate layout engine backend, driving the
// system Chrome through chromedp. Same contract as rodEngine: one
// allocator + browser per call, torn down on return.
type chromedpEngine struct {
	browserBin string
	noSandbox  bool
}

var _ renderEngine = (*chromedpEngine)(nil)

func newChromedpEngine(browserBin string, noSandbox bool) *chromedpEngine {
	return &chromedpEngine{browserBin: browserBin, noSandbox: noSandbox}
}

// Render implements renderEngine.
func (e *chromedpEngine) Render(ctx context.Context, htmlContent string, req *renderRequest) (*renderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-first-run", true),
	)
	if e.browserBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(e.browserBin))
	}
	if e.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	// Cancelling these contexts kills the browser process; deferring them
	// is the forced-termination path for timeouts.
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	// Start the browser eagerly so launch errors surface as their own kind.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineLaunch, err)
	}

	wait, err := boundedWait(ctx, req.Wait)
	if err != nil {
		return nil, err
	}

	measureExpr, err := measureExpression(req.Anchors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	width, height, marginTop, marginBottom, marginSide := pageGeometry(req)

	var ready bool
	var raw []measuredPosition
	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.Poll(pipeline.ReadyExpression, &ready, chromedp.WithPollingTimeout(wait)),
		chromedp.Evaluate(measureExpr, &raw),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = cdppage.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginSide).
				WithMarginRight(marginSide).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(buildFooterTemplate(req.Footer)).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return nil, fmt.Errorf("%w: %v", ErrRenderTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	return &renderResult{PDF: pdf, Positions: toPositions(raw)}, nil
}
