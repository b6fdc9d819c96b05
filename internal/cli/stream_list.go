package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var streamListCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List streams with their note counts",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStreamList,
}

func runStreamList(cmd *cobra.Command, args []string) error {
	start := time.Now()
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	summaries, err := engine.List(pattern)
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		if summaries == nil {
			summaries = []stream.Summary{}
		}
		outputSuccess(map[string]interface{}{
			"streams": summaries,
		}, &Meta{Count: len(summaries), QueryTimeMs: elapsedMs(start)})
		return nil
	}

	if len(summaries) == 0 {
		if pattern != "" {
			fmt.Println(ui.Hint(fmt.Sprintf("No streams match %q", pattern)))
		} else {
			fmt.Println(ui.Hint("No streams yet. Record one with 'nb note <stream> <value>'."))
		}
		return nil
	}

	table := ui.NewTable(3)
	for _, s := range summaries {
		table.AddRow(ui.StreamID(s.ID), s.Name, ui.Hint(strconv.Itoa(s.Count)))
	}
	fmt.Print(table.String())
	return nil
}

func init() {
	streamCmd.AddCommand(streamListCmd)
}
