package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline scaled between the smallest and the
// largest value, so series that dip below zero stay readable.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart renders a bar chart with a labeled Y axis. Negative values hang
// below a zero axis in the loss color.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	hi, lo := 0.0, 0.0
	for _, v := range values {
		hi = max(hi, v)
		lo = min(lo, v)
	}
	if hi == 0 && lo == 0 {
		hi = 1
	}

	// Y-axis: pick a tick step so the chart fits in height
	tickStep := chartTickStep(hi - lo)
	maxIntervals := max(height/2, 2)
	for intervals(hi, lo, tickStep) > maxIntervals {
		tickStep *= 2
	}
	up := int(math.Ceil(hi / tickStep))
	down := int(math.Ceil(-lo / tickStep))
	if up+down == 0 {
		up = 1
	}

	rowsPerTick := max(height/(up+down), 2)
	rowH := tickStep / float64(rowsPerTick)
	upRows := up * rowsPerTick
	downRows := down * rowsPerTick

	ceiling := float64(up) * tickStep
	floor := -float64(down) * tickStep

	yLabelW := max(len(formatChartLabel(ceiling)), len(formatChartLabel(floor))) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	n := len(values)

	// Bar sizing
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := 2
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	} else if n == 1 {
		barW = chartW
	}
	if barW < 2 && n > 1 {
		maxN := max((chartW+1)/3, 2)
		sampled := make([]float64, maxN)
		var sampledLabels []string
		if len(labels) == n {
			sampledLabels = make([]string, maxN)
		}
		for i := range sampled {
			srcIdx := i * (n - 1) / (maxN - 1)
			sampled[i] = values[srcIdx]
			if sampledLabels != nil {
				sampledLabels[i] = labels[srcIdx]
			}
		}
		values = sampled
		labels = sampledLabels
		n = maxN
		barW = 2
	}
	if barW > 6 {
		barW = 6
	}
	axisLen := n*barW + max(0, n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	lossStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder

	writeRow := func(label string, cell func(v float64) string) {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			b.WriteString(cell(v))
		}
		b.WriteString("\n")
	}

	// Rows above zero, top to bottom
	for row := upRows; row >= 1; row-- {
		rowTop := rowH * float64(row)
		rowBottom := rowH * float64(row-1)
		rowPct := float64(row) / float64(upRows)

		var barColor lipgloss.Color
		switch {
		case rowPct > 0.8:
			barColor = t.AccentBright
		case rowPct > 0.5:
			barColor = color
		default:
			barColor = t.Accent
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		label := ""
		if row%rowsPerTick == 0 {
			label = formatChartLabel(rowTop)
		}
		writeRow(label, func(v float64) string {
			switch {
			case v >= rowTop:
				return barStyle.Render(strings.Repeat("█", barW))
			case v > rowBottom:
				idx := int((v - rowBottom) / rowH * 8)
				idx = max(1, min(idx, 8))
				return barStyle.Render(strings.Repeat(string(blocks[idx]), barW))
			default:
				return blankStyle.Render(strings.Repeat(" ", barW))
			}
		})
	}

	if downRows > 0 {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
		b.WriteString(axisStyle.Render("┼"))
		b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
		b.WriteString("\n")

		// Rows below zero, top to bottom
		for row := 1; row <= downRows; row++ {
			rowTop := -rowH * float64(row-1)
			rowBottom := -rowH * float64(row)

			label := ""
			if row%rowsPerTick == 0 {
				label = formatChartLabel(rowBottom)
			}
			writeRow(label, func(v float64) string {
				switch {
				case v <= rowBottom:
					return lossStyle.Render(strings.Repeat("█", barW))
				case v < rowTop && (rowTop-v)/rowH >= 0.5:
					return lossStyle.Render(strings.Repeat("▀", barW))
				default:
					return blankStyle.Render(strings.Repeat(" ", barW))
				}
			})
		}
		b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW)))
		b.WriteString(axisStyle.Render("└"))
		b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	} else {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
		b.WriteString(axisStyle.Render("└"))
		b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))
	}

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(axisLabels(labels, axisLen, barW, gap)))
	}

	return b.String()
}

func intervals(hi, lo, step float64) int {
	return int(math.Ceil(hi/step) + math.Ceil(-lo/step))
}

// axisLabels lays out X-axis labels under their bars, skipping any that
// would collide. The last label is always shown when it fits.
func axisLabels(labels []string, axisLen, barW, gap int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	minSpacing := 8
	labelStep := max(1, (n*minSpacing)/(axisLen+1))

	lastEnd := -1
	for i := 0; i < n; i += labelStep {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd {
			continue
		}
		if end > axisLen {
			end = axisLen
			if end-pos < 3 {
				continue
			}
			lbl = lbl[:end-pos]
		}
		copy(buf[pos:end], lbl)
		lastEnd = end + 1
	}
	if n > 1 {
		lbl := labels[n-1]
		pos := (n - 1) * (barW + gap)
		end := pos + len(lbl)
		if end > axisLen {
			pos = axisLen - len(lbl)
			end = axisLen
		}
		if pos >= 0 && pos > lastEnd {
			copy(buf[pos:end], lbl)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		return trimUnit(v/1e9, "B")
	case v >= 1e6:
		return trimUnit(v/1e6, "M")
	case v >= 1e3:
		return trimUnit(v/1e3, "k")
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimUnit(v float64, unit string) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%s", v, unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}
