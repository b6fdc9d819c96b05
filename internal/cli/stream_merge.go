package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var streamMergeCmd = &cobra.Command{
	Use:   "merge <from> <to>",
	Short: "Move every note of one stream into another",
	Args:  cobra.ExactArgs(2),
	RunE:  runStreamMerge,
}

func runStreamMerge(cmd *cobra.Command, args []string) error {
	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	res, err := engine.Merge(args[0], args[1])
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"from":    res.From,
			"to":      res.To.ID,
			"moved":   res.Moved,
			"count":   res.To.Len(),
			"created": res.Created,
		}, &Meta{Count: res.Moved})
		return nil
	}

	fmt.Println(ui.Successf("Merged %s into %s %s",
		ui.StreamID(res.From), ui.StreamID(res.To.ID), ui.Count(res.Moved, "note moved", "notes moved")))
	if res.Created {
		fmt.Println(ui.Hint(fmt.Sprintf("  created stream %s", res.To.ID)))
	}
	return nil
}

func init() {
	streamCmd.AddCommand(streamMergeCmd)
}
