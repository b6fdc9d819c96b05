package cli

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/echo-bravo-yahoo/nb/internal/model"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

// noteData is the JSON shape of a single note in command responses.
type noteData struct {
	Index     int      `json:"index"`
	Timestamp int64    `json:"timestamp"`
	Value     float64  `json:"value"`
	Tally     bool     `json:"tally,omitempty"`
	Tags      []string `json:"tags"`
}

func newNoteData(index int, n model.Note) noteData {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteData{
		Index:     index,
		Timestamp: n.Timestamp,
		Value:     n.Value.Float(),
		Tally:     n.Value.IsTally(),
		Tags:      tags,
	}
}

// describeNote renders a note for confirmation messages: "72 [morning] 2 hours ago".
func describeNote(n model.Note) string {
	var b strings.Builder
	b.WriteString(n.Value.String())
	if len(n.Tags) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(n.Tags, ", "))
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(ui.Hint(humanize.Time(n.Time())))
	return b.String()
}

// splitContent reads positional note content: the first argument is the
// value and the rest are tags. extraTags from --tag are appended.
func splitContent(args []string, extraTags []string) (*string, []string) {
	var tags []string
	var value *string
	if len(args) > 0 {
		v := args[0]
		value = &v
		tags = append(tags, args[1:]...)
	}
	tags = append(tags, extraTags...)
	return value, tags
}

// elapsedMs returns milliseconds since start for response metadata.
func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
