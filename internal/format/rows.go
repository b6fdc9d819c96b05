package format

import "github.com/echo-bravo-yahoo/nb/internal/model"

// Row is a note tagged with its position in the stored stream.
type Row struct {
	Index int
	Note  model.Note
}

// Prepare index-tags notes, then reverses them if asked, then keeps the first
// limit rows. A limit of zero or less keeps every row.
func Prepare(notes []model.Note, reverse bool, limit int) []Row {
	rows := make([]Row, len(notes))
	for i, n := range notes {
		rows[i] = Row{Index: i, Note: n}
	}
	if reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Tuple returns [index, timestamp, value, tag...].
func (r Row) Tuple() []any {
	return append([]any{r.Index}, r.Note.Tuple()...)
}

func values(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Note.Value.Float()
	}
	return out
}
