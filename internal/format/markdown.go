package format

import (
	"strings"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// renderMarkdown writes a heading and a pipe table. When opts.RenderMarkdown
// is set the table is passed through it for terminal display.
func renderMarkdown(s *model.Stream, rows []Row, opts Options) (string, error) {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(markdownEscaper.Replace(s.DisplayName()))
	sb.WriteString("\n\n| index | time | value | tags |\n| ---: | --- | ---: | --- |\n")
	for _, r := range rows {
		when, err := opts.formatTime(r.Note.Timestamp)
		if err != nil {
			return "", err
		}
		cells := []string{itoa(r.Index), when, r.Note.Value.String(), strings.Join(r.Note.Tags, ", ")}
		for i, c := range cells {
			cells[i] = markdownEscaper.Replace(c)
		}
		sb.WriteString("| ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString(" |\n")
	}

	out := sb.String()
	if opts.RenderMarkdown == nil {
		return out, nil
	}
	return opts.RenderMarkdown(out)
}
