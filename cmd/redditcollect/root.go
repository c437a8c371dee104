package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	collector "github.com/cnu-smr/reddit-collector"
)

var (
	// Global flags
	keysFile      string
	windowTimeSec int
	maxRequests   int
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "redditcollect",
	Short: "Research data collector for Reddit",
	Long: `redditcollect gathers Reddit posts and full comment trees for social
media research and flattens them to tabular files.

It paginates subreddit searches, expands truncated comment trees through the
morechildren endpoint, and keeps every request inside Reddit's rate limits
with a locally tracked sliding window that also inherits quota state already
accrued under the same credentials.

Credentials are read from a JSON key file (CLIENT_ID / SECRET_ID), by
convention keys.json in the working directory.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&keysFile, "keys", "k", collector.DefaultKeysFile, "credential file path")
	rootCmd.PersistentFlags().IntVar(&windowTimeSec, "window-time", 600, "rate window length in seconds (max 600)")
	rootCmd.PersistentFlags().IntVar(&maxRequests, "max-requests", 1000, "max requests per rate window (max 1000)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
