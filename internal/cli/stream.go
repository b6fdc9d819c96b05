package cli

import "github.com/spf13/cobra"

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Manage streams",
	Long:  `List, show, rename, merge, export and delete streams.`,
}

func init() {
	rootCmd.AddCommand(streamCmd)
}
