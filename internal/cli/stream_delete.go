package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var streamDeleteCmd = &cobra.Command{
	Use:   "delete <stream>",
	Short: "Delete a stream and all its notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreamDelete,
}

func runStreamDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	existed, err := engine.Delete(id)
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		data := map[string]interface{}{"stream": id, "deleted": existed}
		if !existed {
			outputSuccessWithWarnings(data, []Warning{{
				Code:    WarnStreamMissing,
				Message: "stream does not exist",
				Stream:  id,
			}}, nil)
			return nil
		}
		outputSuccess(data, nil)
		return nil
	}

	if !existed {
		fmt.Println(ui.Warningf("Stream %s does not exist", ui.StreamID(id)))
		return nil
	}
	fmt.Println(ui.Successf("Deleted stream %s", ui.StreamID(id)))
	return nil
}

func init() {
	streamCmd.AddCommand(streamDeleteCmd)
}
