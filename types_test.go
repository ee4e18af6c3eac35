package docfold

import (
	"errors"
	"math"
	"testing"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil means defaults", nil, nil},
		{"valid letter portrait", &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5}, nil},
		{"valid a4 landscape", &PageSettings{Size: "A4", Orientation: "Landscape", Margin: 1}, nil},
		{"valid legal", &PageSettings{Size: "legal", Orientation: "portrait", Margin: 3}, nil},
		{"unknown size", &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 0.5}, ErrInvalidPageSize},
		{"unknown orientation", &PageSettings{Size: "a4", Orientation: "diagonal", Margin: 0.5}, ErrInvalidOrientation},
		{"margin too small", &PageSettings{Size: "a4", Orientation: "portrait", Margin: 0.1}, ErrInvalidMargin},
		{"margin too large", &PageSettings{Size: "a4", Orientation: "portrait", Margin: 3.5}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageSettings_PrintableHeightPx(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page *PageSettings
		want float64
	}{
		{
			name: "nil uses a4 defaults",
			page: nil,
			want: (11.69 - 1.0) * 96,
		},
		{
			name: "letter with half inch margins",
			page: &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5},
			want: (11 - 1.0) * 96,
		},
		{
			name: "landscape swaps the divisor",
			page: &PageSettings{Size: "letter", Orientation: "landscape", Margin: 0.5},
			want: (8.5 - 1.0) * 96,
		},
		{
			name: "wider margins shrink the page",
			page: &PageSettings{Size: "legal", Orientation: "portrait", Margin: 1},
			want: (14 - 2.0) * 96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.page.PrintableHeightPx()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PrintableHeightPx() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageSettings_PageTopPoints(t *testing.T) {
	t.Parallel()

	letter := &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5}
	if got := letter.PageTopPoints(); got != 11*72 {
		t.Errorf("letter PageTopPoints() = %v, want 792", got)
	}

	landscape := &PageSettings{Size: "letter", Orientation: "landscape", Margin: 0.5}
	if got := landscape.PageTopPoints(); got != 8.5*72 {
		t.Errorf("landscape PageTopPoints() = %v, want 612", got)
	}
}

func TestFooter_Validate(t *testing.T) {
	t.Parallel()

	valid := []*Footer{
		nil,
		{},
		{Position: "left"},
		{Position: "Center"},
		{Position: "RIGHT"},
	}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", f, err)
		}
	}

	if err := (&Footer{Position: "top"}).Validate(); !errors.Is(err, ErrInvalidFooterPos) {
		t.Errorf("err = %v, want ErrInvalidFooterPos", err)
	}
}

func TestOptions_PanicOnNonPositiveDurations(t *testing.T) {
	t.Parallel()

	assertPanics := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	assertPanics("WithTimeout zero", func() { WithTimeout(0) })
	assertPanics("WithRenderWait negative", func() { WithRenderWait(-1) })
}
