package format

import "strings"

// renderCSV writes one "index, time, value[, tag...]" line per note.
func renderCSV(rows []Row, opts Options) (string, error) {
	var sb strings.Builder
	for _, r := range rows {
		when, err := opts.formatTime(r.Note.Timestamp)
		if err != nil {
			return "", err
		}
		fields := append([]string{itoa(r.Index), when, r.Note.Value.String()}, r.Note.Tags...)
		sb.WriteString(strings.Join(fields, ", "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
