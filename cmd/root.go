// Package cmd implements the ytbridge command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ytbridge",
	Short: "REST facade over the YouTube Data API",
	Long: `ytbridge exposes YouTube search, liked videos, keyword-based
recommendations, and like/comment/subscribe actions over a small REST
API, authorized with OAuth2 user credentials stored on disk.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
