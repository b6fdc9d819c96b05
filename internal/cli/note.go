package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var (
	noteTimestamp string
	noteTags      []string
)

var noteCmd = &cobra.Command{
	Use:   "note <stream> [value] [tags...]",
	Short: "Record an observation in a stream",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNote,
}

func runNote(cmd *cobra.Command, args []string) error {
	start := time.Now()
	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	value, tags := splitContent(args[1:], noteTags)
	res, err := engine.Note(args[0], value, tags, noteTimestamp)
	if err != nil {
		if code := codeFor(err); code == ErrUnparseableTimestamp {
			return handleError(code, err, timestampSuggestion(noteTimestamp))
		}
		return handleEngineError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"stream":   res.Stream.ID,
			"created":  res.Created,
			"explicit": res.Explicit,
			"count":    res.Stream.Len(),
			"note":     newNoteData(res.Index, res.Note),
		}, &Meta{QueryTimeMs: elapsedMs(start)})
		return nil
	}

	fmt.Println(ui.Successf("Noted %s in %s", describeNote(res.Note), ui.StreamID(res.Stream.ID)))
	if res.Created {
		fmt.Println(ui.Hint(fmt.Sprintf("  created stream %s", res.Stream.ID)))
	}
	return nil
}

// timestampSuggestion explains the common "-ts <when>" slip, which the flag
// parser reads as -t with the value "s".
func timestampSuggestion(raw string) string {
	if strings.TrimSpace(raw) == "s" {
		return `"-ts" is read as "-t s"; use --ts "<when>" or -t "<when>"`
	}
	return suggestionFor(ErrUnparseableTimestamp)
}

func init() {
	noteCmd.Flags().StringVarP(&noteTimestamp, "timestamp", "t", "", "When the observation happened")
	noteCmd.Flags().StringVar(&noteTimestamp, "ts", "", "Alias for --timestamp")
	_ = noteCmd.Flags().MarkHidden("ts")
	noteCmd.Flags().StringSliceVarP(&noteTags, "tag", "T", nil, "Add a tag (repeatable)")
	rootCmd.AddCommand(noteCmd)
}
