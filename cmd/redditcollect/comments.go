package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cnu-smr/reddit-collector/pkg/export"
	"github.com/cnu-smr/reddit-collector/pkg/metrics"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

var (
	commentsFormat string
	commentsOut    string
)

var commentsCmd = &cobra.Command{
	Use:   "comments <post-id> [comment-id]",
	Short: "Fetch a post's full comment tree and export it",
	Long: `Fetch the complete comment tree for a post, expanding comments that
Reddit truncated from the initial response. When a comment id is given, only
the subtree rooted at that comment is fetched.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCollectorClient(metrics.Nop{})
		if err != nil {
			return err
		}

		req := &types.CommentsRequest{PostID: args[0]}
		if len(args) == 2 {
			req.CommentID = args[1]
		}

		comments, err := client.GetComments(cmd.Context(), req)
		if err != nil {
			return err
		}

		return writeRecords(commentsFormat, commentsOut, func(w io.Writer) error {
			return export.WriteCommentsCSV(w, comments)
		}, comments)
	},
}

func init() {
	commentsCmd.Flags().StringVar(&commentsFormat, "format", "csv", "output format (csv, json)")
	commentsCmd.Flags().StringVarP(&commentsOut, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(commentsCmd)
}
