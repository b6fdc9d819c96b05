package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// DefaultDashboardColumns is the number of charts per grid row.
const DefaultDashboardColumns = 4

// DashboardOptions sizes the dashboard grid.
type DashboardOptions struct {
	Columns    int
	TermWidth  int
	TermHeight int
}

// Grid is the computed dashboard layout.
type Grid struct {
	Columns    int
	Rows       int
	CellWidth  int
	CellHeight int
}

// Layout divides the terminal between n charts. One line is kept
// free for the prompt.
func Layout(n int, opts DashboardOptions) Grid {
	cols := opts.Columns
	if cols <= 0 {
		cols = DefaultDashboardColumns
	}
	rows := (n + cols - 1) / cols
	g := Grid{Columns: cols, Rows: rows, CellWidth: opts.TermWidth / cols}
	if rows > 0 {
		g.CellHeight = (opts.TermHeight - 1) / rows
	}
	g.CellWidth = max(g.CellWidth, minChartWidth)
	g.CellHeight = max(g.CellHeight, minChartHeight+2)
	return g
}

// Dashboard writes every stream as a small chart in a fixed-column grid.
// Each cell is captioned with the stream's display name and padded to the
// cell width so columns line up. Streams with no notes leave a blank chart.
func Dashboard(w io.Writer, streams []*model.Stream, opts DashboardOptions) error {
	if len(streams) == 0 {
		return nil
	}
	g := Layout(len(streams), opts)
	linesPerRow := g.CellHeight - 2

	cells := make([][]string, len(streams))
	for i, s := range streams {
		lines := ChartLines(s.Numbers(), g.CellWidth-1, linesPerRow, s.DisplayName())
		cells[i] = fitCell(lines, g.CellWidth, linesPerRow)
	}

	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		for line := 0; line < linesPerRow; line++ {
			for col := 0; col < g.Columns; col++ {
				i := row*g.Columns + col
				if i >= len(cells) {
					break
				}
				sb.WriteString(cells[i][line])
			}
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// fitCell truncates or pads every line to width and the block to height
// lines. Empty charts keep their caption at the bottom of the cell.
func fitCell(lines []string, width, height int) []string {
	if len(lines) > height {
		lines = lines[:height]
	}
	blank := strings.Repeat(" ", width)
	out := make([]string, 0, height)
	for i := len(lines); i < height; i++ {
		out = append(out, blank)
	}
	for _, line := range lines {
		line = ansi.Truncate(line, width, "")
		out = append(out, line+strings.Repeat(" ", width-ansi.StringWidth(line)))
	}
	return out
}
