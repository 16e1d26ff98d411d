package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunescore/server"
)

var rootCmd = &cobra.Command{
	Use:   "tunescore",
	Short: "TuneScore is a personal music-rating tracker.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
