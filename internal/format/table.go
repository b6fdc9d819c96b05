package format

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws a boxed table titled with the stream's display name.
func renderTable(s *model.Stream, rows []Row, opts Options) (string, error) {
	data := make([][]string, len(rows))
	for i, r := range rows {
		when, err := opts.formatTime(r.Note.Timestamp)
		if err != nil {
			return "", err
		}
		data[i] = []string{itoa(r.Index), when, r.Note.Value.String(), strings.Join(r.Note.Tags, ", ")}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("index", "time", "value", "tags").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 || col == 2 {
				return tableCellStyle.Align(lipgloss.Right)
			}
			return tableCellStyle
		}).
		Rows(data...)

	rendered := tbl.Render()
	title := tableTitleStyle.Render(s.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Center, title, rendered), nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
