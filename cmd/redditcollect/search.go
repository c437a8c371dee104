package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cnu-smr/reddit-collector/pkg/export"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

var (
	searchCount  int
	searchSort   string
	searchFormat string
	searchOut    string
)

var searchCmd = &cobra.Command{
	Use:   "search <subreddit> <term>",
	Short: "Search a subreddit and export the matching posts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCollectorClient(metrics.Nop{})
		if err != nil {
			return err
		}

		posts, err := client.SearchPosts(cmd.Context(), args[0], args[1], searchCount, types.SortBy(searchSort))
		if err != nil {
			return err
		}

		return writeRecords(searchFormat, searchOut, func(w io.Writer) error {
			return export.WritePostsCSV(w, posts)
		}, posts)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchCount, "count", 1000, "target number of unique posts")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(types.SortNew), "sort order (relevance, hot, top, new, comments)")
	searchCmd.Flags().StringVar(&searchFormat, "format", "csv", "output format (csv, json)")
	searchCmd.Flags().StringVarP(&searchOut, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(searchCmd)
}
