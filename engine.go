package docfold

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"
)

// renderEngine abstracts the layout engine driver so backends can be
// swapped (go-rod is the default, chromedp the alternative) and tests can
// inject fakes. One Render call launches one isolated engine instance;
// concurrent conversions never share engine state.
type renderEngine interface {
	Render(ctx context.Context, htmlContent string, req *renderRequest) (*renderResult, error)
}

// renderRequest carries everything one rasterization needs.
type renderRequest struct {
	Page    *PageSettings
	Footer  *Footer
	Anchors []string      // heading anchor ids to measure, document order
	Wait    time.Duration // render-complete wait budget
}

// renderResult is the paginated document plus the measured anchors.
// Anchors missing from the DOM are absent from Positions, not errors.
type renderResult struct {
	PDF       []byte
	Positions []HeadingPosition
}

// measureJS locates each anchor in the rendered DOM and reports its top
// offset relative to the continuous, pre-pagination document flow,
// including any scroll offset. Missing anchors are dropped.
const measureJS = `(ids) => ids
	.map((id) => {
		const el = document.getElementById(id);
		if (el === null) { return null; }
		const rect = el.getBoundingClientRect();
		return { id: id, top: rect.top + window.scrollY };
	})
	.filter((p) => p !== null)`

// measureExpression renders measureJS as a self-invoking expression with
// the anchor list inlined, for backends that evaluate expressions rather
// than functions with arguments.
func measureExpression(anchors []string) (string, error) {
	args, err := json.Marshal(anchors)
	if err != nil {
		return "", fmt.Errorf("encoding anchor list: %w", err)
	}
	return "(" + measureJS + ")(" + string(args) + ")", nil
}

// measuredPosition mirrors measureJS's result objects.
type measuredPosition struct {
	ID  string  `json:"id"`
	Top float64 `json:"top"`
}

// toPositions converts raw measurements, discarding non-finite offsets.
func toPositions(raw []measuredPosition) []HeadingPosition {
	positions := make([]HeadingPosition, 0, len(raw))
	for _, m := range raw {
		positions = append(positions, HeadingPosition{AnchorID: m.ID, OffsetPx: m.Top})
	}
	return positions
}

// footerFontFamily is the font stack for the baked-in page footer.
const footerFontFamily = "sans-serif"

// marginBottomExtra reserves footer space below the content area, in inches.
const marginBottomExtra = 0.25

// buildFooterTemplate generates the HTML template for the engine's native
// footer. A nil footer produces the default "page N of M" decoration.
func buildFooterTemplate(f *Footer) string {
	if f == nil {
		f = &Footer{ShowPageNumber: true}
	}

	var parts []string
	if f.ShowPageNumber {
		parts = append(parts, `page <span class="pageNumber"></span> of <span class="totalPages"></span>`)
	}
	if f.Text != "" {
		parts = append(parts, html.EscapeString(f.Text))
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	textAlign := "center"
	switch strings.ToLower(f.Position) {
	case "left":
		textAlign = "left"
	case "right":
		textAlign = "right"
	}

	return fmt.Sprintf(
		`<div style="font-size: 9px; font-family: %s; color: #888; width: 100%%; text-align: %s; padding: 0 0.5in;">%s</div>`,
		footerFontFamily, textAlign, strings.Join(parts, " &middot; "),
	)
}

// pageGeometry resolves the print geometry for a request: paper size and
// margins in inches, footer margin included.
func pageGeometry(req *renderRequest) (width, height, marginTop, marginBottom, marginSide float64) {
	width, height = req.Page.paperSize()
	margin := req.Page.margin()
	return width, height, margin, margin + marginBottomExtra, margin
}

// boundedWait clamps the render-complete wait to the context deadline.
func boundedWait(ctx context.Context, wait time.Duration) (time.Duration, error) {
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if remaining < wait {
			return remaining, nil
		}
	}
	return wait, nil
}
