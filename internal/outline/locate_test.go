package outline

import "testing"

func TestLocate(t *testing.T) {
	t.Parallel()

	const pageHeight = 960.0 // letter portrait, 0.5in margins, 96 dpi

	tests := []struct {
		name       string
		offsetPx   float64
		pageHeight float64
		pageCount  int
		want       int
	}{
		{"top of first page", 0, pageHeight, 3, 0},
		{"middle of first page", 480, pageHeight, 3, 0},
		{"just below first page boundary", 960, pageHeight, 3, 1},
		{"just above first page boundary", 959.9, pageHeight, 3, 0},
		{"third page", 2000, pageHeight, 3, 2},
		{"offset past last page clamps", 99999, pageHeight, 3, 2},
		{"negative offset clamps to zero", -50, pageHeight, 3, 0},
		{"single page document", 5000, pageHeight, 1, 0},
		{"zero page count", 100, pageHeight, 0, 0},
		{"negative page count", 100, pageHeight, -1, 0},
		{"zero page height", 100, 0, 3, 0},
		{"negative page height", 100, -10, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Locate(tt.offsetPx, tt.pageHeight, tt.pageCount)
			if got != tt.want {
				t.Errorf("Locate(%v, %v, %d) = %d, want %d",
					tt.offsetPx, tt.pageHeight, tt.pageCount, got, tt.want)
			}
		})
	}
}

func TestLocate_Monotonic(t *testing.T) {
	t.Parallel()

	// Larger offsets never map to earlier pages.
	last := 0
	for offset := 0.0; offset < 10000; offset += 37 {
		got := Locate(offset, 960, 10)
		if got < last {
			t.Fatalf("Locate regressed from page %d to %d at offset %v", last, got, offset)
		}
		last = got
	}
}
