package docfold

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		footer       *Footer
		wantContains []string
		wantNot      []string
	}{
		{
			name:   "nil footer gets default page numbers",
			footer: nil,
			wantContains: []string{
				`class="pageNumber"`,
				`class="totalPages"`,
				"text-align: center",
			},
		},
		{
			name:         "empty footer renders nothing visible",
			footer:       &Footer{},
			wantContains: []string{"<span></span>"},
			wantNot:      []string{"pageNumber"},
		},
		{
			name:         "left position",
			footer:       &Footer{Position: "left", ShowPageNumber: true},
			wantContains: []string{"text-align: left"},
		},
		{
			name:         "right position",
			footer:       &Footer{Position: "RIGHT", ShowPageNumber: true},
			wantContains: []string{"text-align: right"},
		},
		{
			name:         "text joined with page number",
			footer:       &Footer{ShowPageNumber: true, Text: "Confidential"},
			wantContains: []string{"pageNumber", "&middot;", "Confidential"},
		},
		{
			name:         "text only",
			footer:       &Footer{Text: "Draft"},
			wantContains: []string{"Draft"},
			wantNot:      []string{"pageNumber", "&middot;"},
		},
		{
			name:         "text is HTML-escaped",
			footer:       &Footer{Text: `<img src=x>`},
			wantContains: []string{"&lt;img src=x&gt;"},
			wantNot:      []string{"<img"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildFooterTemplate(tt.footer)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("template missing %q: %s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("template must not contain %q: %s", not, got)
				}
			}
		})
	}
}

func TestMeasureExpression(t *testing.T) {
	t.Parallel()

	expr, err := measureExpression([]string{"intro", "deep-dive"})
	if err != nil {
		t.Fatalf("measureExpression() error = %v", err)
	}
	if !strings.Contains(expr, `["intro","deep-dive"]`) {
		t.Errorf("anchor list not inlined: %s", expr)
	}
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, `)(["intro","deep-dive"])`) {
		t.Errorf("expected self-invoking expression: %s", expr)
	}
}

func TestToPositions(t *testing.T) {
	t.Parallel()

	raw := []measuredPosition{
		{ID: "a", Top: 0},
		{ID: "b", Top: 1234.5},
	}
	got := toPositions(raw)
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}
	if got[1].AnchorID != "b" || got[1].OffsetPx != 1234.5 {
		t.Errorf("position[1] = %+v", got[1])
	}
}

func TestPageGeometry(t *testing.T) {
	t.Parallel()

	req := &renderRequest{Page: &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5}}
	width, height, top, bottom, side := pageGeometry(req)

	if width != 8.5 || height != 11 {
		t.Errorf("paper = %vx%v, want 8.5x11", width, height)
	}
	if top != 0.5 || side != 0.5 {
		t.Errorf("margins top=%v side=%v, want 0.5", top, side)
	}
	if bottom != 0.5+marginBottomExtra {
		t.Errorf("bottom margin = %v, want footer space added", bottom)
	}
}

func TestPageGeometry_NilPageUsesDefaults(t *testing.T) {
	t.Parallel()

	width, height, _, _, _ := pageGeometry(&renderRequest{})
	if width != 8.27 || height != 11.69 {
		t.Errorf("paper = %vx%v, want a4 defaults", width, height)
	}
}

func TestBoundedWait(t *testing.T) {
	t.Parallel()

	t.Run("no deadline keeps wait", func(t *testing.T) {
		t.Parallel()
		got, err := boundedWait(context.Background(), 10*time.Second)
		if err != nil || got != 10*time.Second {
			t.Errorf("boundedWait = %v, %v", got, err)
		}
	})

	t.Run("tighter deadline clamps wait", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		got, err := boundedWait(ctx, 10*time.Second)
		if err != nil {
			t.Fatalf("boundedWait error = %v", err)
		}
		if got > 100*time.Millisecond {
			t.Errorf("wait %v not clamped to deadline", got)
		}
	})

	t.Run("expired deadline errors", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)
		_, err := boundedWait(ctx, time.Second)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want DeadlineExceeded", err)
		}
	})
}
