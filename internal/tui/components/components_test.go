package components

import (
	"testing"

	"github.com/mbh206/aifinacker/internal/tui/theme"
)

func TestLayoutRow_SumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{
		{100, 4}, {101, 4}, {103, 4}, {7, 3}, {80, 1},
	} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestLayoutRow_Empty(t *testing.T) {
	if got := LayoutRow(100, 0); got != nil {
		t.Errorf("LayoutRow(100, 0) = %v, want nil", got)
	}
}

func TestColorForUsage_Thresholds(t *testing.T) {
	th := theme.Active
	tests := []struct {
		pct  float64
		want string
	}{
		{0, string(th.Green)},
		{74.9, string(th.Green)},
		{75, string(th.Yellow)},
		{89.9, string(th.Yellow)},
		{90, string(th.Orange)},
		{99.9, string(th.Orange)},
		{100, string(th.Red)},
		{140, string(th.Red)},
	}
	for _, tt := range tests {
		if got := ColorForUsage(tt.pct); got != tt.want {
			t.Errorf("ColorForUsage(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestXAxisLabels_PlacesUnderColumns(t *testing.T) {
	// Columns 3 wide with 1 gap: positions 0, 4, 8; everything fits.
	got := xAxisLabels([]string{"Jan", "Feb", "Mar"}, 3, 1, 11)
	if got != "Jan Feb Mar" {
		t.Errorf("xAxisLabels = %q, want %q", got, "Jan Feb Mar")
	}
}

func TestXAxisLabels_SkipsOverlaps(t *testing.T) {
	// Columns 2 wide with 1 gap: "Feb" would touch "Jan" and "Mar" runs
	// past the axis, so only the first label survives.
	got := xAxisLabels([]string{"Jan", "Feb", "Mar"}, 2, 1, 8)
	if got != "Jan" {
		t.Errorf("xAxisLabels = %q, want %q", got, "Jan")
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2_500_000, "2.5M"},
		{1500, "1.5k"},
		{42, "42"},
		{0.5, "0.50"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
