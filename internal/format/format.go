// Package format renders a stream's notes as text.
//
// Notes are index-tagged before they are reversed or limited, so the index
// shown next to a note is always its position in the stored stream.
package format

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/echo-bravo-yahoo/nb/internal/model"
)

// Output format names.
const (
	CSV      = "csv"
	Table    = "table"
	Chart    = "chart"
	Graph    = "graph"
	JSON     = "json"
	YAML     = "yaml"
	Markdown = "markdown"
	// Timeline is accepted by the flag but has no renderer yet.
	Timeline = "timeline"
)

// Formats lists every format name the show command accepts.
var Formats = []string{CSV, Table, Chart, Graph, JSON, YAML, Markdown, Timeline}

// DefaultFormat is used when neither flag nor config names one.
const DefaultFormat = CSV

// ErrUnsupportedFormat is returned for format or time-format names with no renderer.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Options controls a render.
type Options struct {
	Format     string
	TimeFormat string
	Reverse    bool
	// Limit keeps the first N notes after any reversal. Zero keeps all.
	Limit int

	// Width and Height size the chart format in terminal cells.
	Width  int
	Height int

	// Now anchors relative times. Zero means time.Now().
	Now time.Time
	// Location is used by the date time format. Nil means time.Local.
	Location *time.Location

	// RenderMarkdown, when set, post-processes markdown output for a terminal.
	RenderMarkdown func(string) (string, error)
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Validate checks the format and time-format names before anything is rendered.
func (o Options) Validate() error {
	switch strings.ToLower(o.Format) {
	case "", CSV, Table, Chart, Graph, JSON, YAML, Markdown:
	case Timeline:
		return fmt.Errorf("%w: %s is not implemented yet", ErrUnsupportedFormat, Timeline)
	default:
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedFormat, o.Format, strings.Join(Formats, ", "))
	}
	return ValidateTimeFormat(o.TimeFormat)
}

// Render writes s to w in the requested format.
func Render(w io.Writer, s *model.Stream, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	rows := Prepare(s.Values, opts.Reverse, opts.Limit)

	var (
		out string
		err error
	)
	switch strings.ToLower(opts.Format) {
	case "", CSV:
		out, err = renderCSV(rows, opts)
	case Table:
		out, err = renderTable(s, rows, opts)
	case Chart:
		out = renderChart(rows, opts.Width, opts.Height, s.DisplayName())
	case Graph:
		out = Sparkline(values(rows))
	case JSON:
		out, err = renderJSON(s, rows)
	case YAML:
		out, err = renderYAML(s, rows)
	case Markdown:
		out, err = renderMarkdown(s, rows, opts)
	}
	if err != nil {
		return err
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}
