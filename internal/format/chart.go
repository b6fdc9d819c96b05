package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"
)

// Smallest chart asciigraph can draw legibly.
const (
	minChartWidth  = 8
	minChartHeight = 3
)

// chartOffset mirrors asciigraph's default gap left of the y-axis labels.
const chartOffset = 3

// renderChart plots the values of rows, at most width cells wide and height lines tall.
func renderChart(rows []Row, width, height int, caption string) string {
	return strings.Join(ChartLines(values(rows), width, height, caption), "\n")
}

// ChartLines plots series as a multi-row line chart. The result never exceeds
// width cells per line or height lines, caption included. An empty series
// yields only the caption.
func ChartLines(series []float64, width, height int, caption string) []string {
	width = max(width, minChartWidth)
	height = max(height, minChartHeight)
	if len(series) == 0 {
		if caption == "" {
			return nil
		}
		return []string{ansi.Truncate(caption, width, "…")}
	}
	// A single point has no slope to draw; repeat it as a flat line.
	if len(series) == 1 {
		series = []float64{series[0], series[0]}
	}

	// asciigraph emits one more line than the requested height.
	plotRows := height - 1
	if caption != "" {
		plotRows--
	}
	plot := asciigraph.Plot(series,
		asciigraph.Height(max(plotRows, 1)),
		asciigraph.Width(max(width-labelWidth(series), 2)),
	)

	lines := strings.Split(plot, "\n")
	if caption != "" {
		lines = append(lines, centered(ansi.Truncate(caption, width, "…"), width))
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return lines
}

func centered(s string, width int) string {
	pad := (width - ansi.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// labelWidth estimates the cells asciigraph uses for y-axis labels and the axis itself.
func labelWidth(series []float64) int {
	lo, hi := series[0], series[0]
	for _, v := range series {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	w := max(len(fmt.Sprintf("%.2f", lo)), len(fmt.Sprintf("%.2f", hi)))
	return chartOffset + w + 2
}
