package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/model"
	"github.com/echo-bravo-yahoo/nb/internal/stream"
	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var denoteCmd = &cobra.Command{
	Use:   "denote <stream> [reference]",
	Short: "Delete a note from a stream",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDenote,
}

func runDenote(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ref := stream.Latest
	if len(args) > 1 {
		var err error
		ref, err = stream.ParseReference(args[1])
		if err != nil {
			return handleEngineError(err)
		}
	}

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	res, err := engine.Denote(args[0], ref)
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		// Removed notes have no position left, so they go out as stored tuples.
		removed := res.Removed
		if removed == nil {
			removed = []model.Note{}
		}
		data := map[string]interface{}{
			"stream":    res.Stream.ID,
			"reference": ref.String(),
			"address":   res.Address.Kind.String(),
			"removed":   removed,
			"count":     res.Stream.Len(),
		}
		meta := &Meta{Count: len(removed), QueryTimeMs: elapsedMs(start)}
		if len(removed) == 0 {
			outputSuccessWithWarnings(data, []Warning{{
				Code:    WarnNothingRemoved,
				Message: fmt.Sprintf("no note has timestamp %d", res.Address.Value),
				Stream:  res.Stream.ID,
			}}, meta)
			return nil
		}
		outputSuccess(data, meta)
		return nil
	}

	if len(res.Removed) == 0 {
		fmt.Println(ui.Warningf("No note in %s has timestamp %d", ui.StreamID(res.Stream.ID), res.Address.Value))
		return nil
	}
	for _, n := range res.Removed {
		fmt.Println(ui.Successf("Removed %s from %s", describeNote(n), ui.StreamID(res.Stream.ID)))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(denoteCmd)
}
