package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "microblog",
	Short:         "Server-rendered microblog",
	Long:          "Register by username, post short entries, like other people's posts.\nRunning without a subcommand starts the web server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yml)")
}
