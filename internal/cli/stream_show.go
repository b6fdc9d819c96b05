package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/format"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var (
	showFormat     string
	showTimeFormat string
	showReverse    bool
	showLimit      int
	showWidth      format.Dimension
	showHeight     format.Dimension
)

var streamShowCmd = &cobra.Command{
	Use:   "show <stream>",
	Short: "Display the notes of a stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreamShow,
}

// showOptions builds render options from flags, falling back to the config
// for anything not set on the command line.
func showOptions(cmd *cobra.Command, dc *ui.DisplayContext) (format.Options, error) {
	c := getConfig()
	opts := format.Options{
		Format:     c.Display.Format,
		TimeFormat: c.Display.TimeFormat,
		Reverse:    showReverse,
		Limit:      showLimit,
	}
	if cmd.Flags().Changed("format") {
		opts.Format = showFormat
	}
	if cmd.Flags().Changed("time-format") {
		opts.TimeFormat = showTimeFormat
	}
	if opts.Limit < 0 {
		return opts, fmt.Errorf("--limit must not be negative, got %d", opts.Limit)
	}

	var err error
	if opts.Width, err = showWidth.Resolve(dc.TermWidth, false); err != nil {
		return opts, fmt.Errorf("--width: %w", err)
	}
	if opts.Height, err = showHeight.Resolve(dc.TermHeight, true); err != nil {
		return opts, fmt.Errorf("--height: %w", err)
	}
	return opts, nil
}

func runStreamShow(cmd *cobra.Command, args []string) error {
	start := time.Now()
	dc := ui.NewDisplayContext()
	opts, err := showOptions(cmd, dc)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}
	if err := opts.Validate(); err != nil {
		return handleEngineError(err)
	}

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	s, err := engine.Get(args[0])
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		rows := format.Prepare(s.Values, opts.Reverse, opts.Limit)
		notes := make([]noteData, 0, len(rows))
		for _, row := range rows {
			notes = append(notes, newNoteData(row.Index, row.Note))
		}
		outputSuccess(map[string]interface{}{
			"stream": s.ID,
			"name":   s.Name,
			"notes":  notes,
		}, &Meta{Count: len(notes), QueryTimeMs: elapsedMs(start)})
		return nil
	}

	if strings.EqualFold(opts.Format, format.Markdown) && isatty.IsTerminal(os.Stdout.Fd()) {
		opts.RenderMarkdown = func(md string) (string, error) {
			return ui.RenderMarkdown(md, dc.TermWidth)
		}
	}
	if err := format.Render(os.Stdout, s, opts); err != nil {
		return handleEngineError(err)
	}
	return nil
}

func init() {
	streamShowCmd.Flags().StringVarP(&showFormat, "format", "f", format.DefaultFormat, "Output format: csv, table, chart, graph, json, yaml, markdown")
	streamShowCmd.Flags().StringVar(&showTimeFormat, "time-format", format.DefaultTimeFormat, "Timestamp format: unix, relative, date")
	streamShowCmd.Flags().BoolVarP(&showReverse, "reverse", "r", false, "Newest first")
	streamShowCmd.Flags().IntVarP(&showLimit, "limit", "l", 0, "Show at most N notes")
	streamShowCmd.Flags().Var(&showWidth, "width", "Chart width in cells or percent of the terminal")
	streamShowCmd.Flags().Var(&showHeight, "height", "Chart height in cells or percent of the terminal")
	streamCmd.AddCommand(streamShowCmd)
}
