// Package export projects collected records into the tabular and raw formats
// used by the research pipeline.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

// BaseWebURL prefixes relative permalinks into full links.
const BaseWebURL = "https://www.reddit.com"

// Timestamps are rendered at the study site's fixed UTC offset so exported
// rows line up regardless of where the collector runs.
var exportZone = time.FixedZone("", -8*60*60)

const timestampLayout = "2006-01-02 15:04:05-07:00"

// Column sets are fixed: downstream analysis notebooks index by name.
var postColumns = []string{
	"subreddit", "query", "id", "title", "body", "date",
	"author", "flair", "permalink", "score", "num_comments",
}

var commentColumns = []string{
	"subreddit", "id", "parent_id", "body", "date",
	"author", "permalink", "score",
}

// WritePostsCSV writes one row per post with the fixed post column set.
func WritePostsCSV(w io.Writer, posts []*types.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(postColumns); err != nil {
		return err
	}

	for _, p := range posts {
		flair := ""
		if p.LinkFlairText != nil {
			flair = *p.LinkFlairText
		}
		row := []string{
			p.Subreddit,
			p.Query,
			p.ID,
			p.Title,
			p.SelfText,
			formatTimestamp(p.Created),
			p.Author,
			flair,
			BaseWebURL + p.Permalink,
			fmt.Sprintf("%d", p.Score),
			fmt.Sprintf("%d", p.NumComments),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCommentsCSV writes one row per comment with the fixed comment column set.
func WriteCommentsCSV(w io.Writer, comments []*types.Comment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(commentColumns); err != nil {
		return err
	}

	for _, c := range comments {
		row := []string{
			c.Subreddit,
			c.ID,
			c.ParentID,
			c.Body,
			formatTimestamp(c.Created),
			c.Author,
			BaseWebURL + c.Permalink,
			fmt.Sprintf("%d", c.Score),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTimestamp(epoch float64) string {
	return time.Unix(int64(epoch), 0).In(exportZone).Format(timestampLayout)
}
