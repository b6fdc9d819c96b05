package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var (
	correctNote string
	correctTags []string
)

var correctCmd = &cobra.Command{
	Use:   "correct <stream> [reference] [value] [tags...]",
	Short: "Replace the value and tags of a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCorrect,
}

// correctArgs is the parsed form of correct's positional arguments.
type correctArgs struct {
	ref   stream.Reference
	value *string
	tags  []string
}

// parseCorrectArgs splits the arguments after the stream id.
//
// With an explicit value (--note) a leading integer is the reference and
// everything else is tags. Otherwise a leading integer is the reference only
// when more content follows it, so "correct temp 71" corrects the newest note
// to 71.
func parseCorrectArgs(rest []string, explicit *string) correctArgs {
	var out correctArgs
	leadingRef := func() bool {
		if len(rest) == 0 {
			return false
		}
		ref, err := stream.ParseReference(rest[0])
		if err != nil || !ref.Set {
			return false
		}
		out.ref = ref
		return true
	}

	if explicit != nil {
		if leadingRef() {
			rest = rest[1:]
		}
		out.value = explicit
		out.tags = append(out.tags, rest...)
		return out
	}

	if len(rest) >= 2 && leadingRef() {
		rest = rest[1:]
	}
	out.value, out.tags = splitContent(rest, nil)
	return out
}

func runCorrect(cmd *cobra.Command, args []string) error {
	start := time.Now()
	var explicit *string
	if cmd.Flags().Changed("note") {
		explicit = &correctNote
	}
	parsed := parseCorrectArgs(args[1:], explicit)
	parsed.tags = append(parsed.tags, correctTags...)

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	res, err := engine.Correct(args[0], parsed.ref, parsed.value, parsed.tags)
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"stream":    res.Stream.ID,
			"reference": parsed.ref.String(),
			"before":    newNoteData(res.Index, res.Before),
			"after":     newNoteData(res.Index, res.After),
		}, &Meta{QueryTimeMs: elapsedMs(start)})
		return nil
	}

	fmt.Println(ui.Successf("Corrected note %d in %s", res.Index, ui.StreamID(res.Stream.ID)))
	fmt.Printf("  %s %s\n", ui.Hint("was"), describeNote(res.Before))
	fmt.Printf("  %s %s\n", ui.Hint("now"), describeNote(res.After))
	return nil
}

func init() {
	correctCmd.Flags().StringVar(&correctNote, "note", "", "Corrected value (skips reference detection)")
	correctCmd.Flags().StringSliceVarP(&correctTags, "tag", "T", nil, "Add a tag (repeatable)")
	rootCmd.AddCommand(correctCmd)
}
