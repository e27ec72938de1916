package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fcast/internal/tui/theme"
)

func TestSparklineScalesBetweenMinAndMax(t *testing.T) {
	got := Sparkline([]float64{-10, 0, 10}, theme.Active.Accent)
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Fatalf("sparkline %q should span lowest to highest block", got)
	}
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Fatal("empty series should render nothing")
	}
}

func TestBarChartDrawsZeroAxisForLosses(t *testing.T) {
	chart := BarChart([]float64{500, -200, 300}, []string{"1", "2", "3"}, theme.Active.Blue, 40, 10)
	if !strings.Contains(chart, "┼") {
		t.Fatalf("chart with a negative value should draw a zero axis:\n%s", chart)
	}

	positive := BarChart([]float64{500, 200}, nil, theme.Active.Blue, 40, 10)
	if strings.Contains(positive, "┼") {
		t.Fatalf("chart without losses should not draw a zero axis:\n%s", positive)
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		500:      "500",
		1500:     "1.5k",
		2000:     "2k",
		-3000000: "-3M",
	}
	for in, want := range tests {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
