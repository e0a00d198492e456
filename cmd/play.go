package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [level-id]",
	Short: "Start the app, optionally jumping straight into a level",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := ""
		if len(args) == 1 {
			start = args[0]
		}
		return runApp(cmd, start)
	},
}
