package cmd

import (
	"github.com/spf13/cobra"

	"tunescore/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TuneScore server",
	Long:  `Start the HTTP server that tracks now-playing history, stores ratings and serves analytics.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
