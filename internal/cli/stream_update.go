package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echo-bravo-yahoo/nb/internal/ui"
)

var streamUpdateName string

var streamUpdateCmd = &cobra.Command{
	Use:   "update <stream>",
	Short: "Update stream properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreamUpdate,
}

func runStreamUpdate(cmd *cobra.Command, args []string) error {
	var name *string
	if cmd.Flags().Changed("name") {
		name = &streamUpdateName
	}

	engine, closeStore, err := openEngine()
	if err != nil {
		return handleError(ErrStoreError, err, "")
	}
	defer closeStore()

	s, err := engine.Update(args[0], name)
	if err != nil {
		return handleEngineError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"stream":  s.ID,
			"name":    s.Name,
			"updated": name != nil,
		}, nil)
		return nil
	}

	if name == nil {
		fmt.Println(ui.Info("Nothing to update. Pass --name to set the display name."))
		return nil
	}
	fmt.Println(ui.Successf("Updated %s: name is now %q", ui.StreamID(s.ID), s.Name))
	return nil
}

func init() {
	streamUpdateCmd.Flags().StringVarP(&streamUpdateName, "name", "n", "", "Display name")
	streamCmd.AddCommand(streamUpdateCmd)
}
