package internal

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

const (
	// BatchSize caps the comma-joined ids per morechildren request.
	BatchSize = 100

	searchPageLimit  = 100
	commentTreeLimit = 500
	commentTreeDepth = 10
	commentTreeSort  = "old"
)

// Query builders for the three endpoint shapes the collector uses. They are
// pure string builders; parameter order is fixed for wire compatibility with
// the deployed collector, so url.Values (which sorts keys) is not used.

// BuildSearchQuery returns the search URL for term within a subreddit,
// optionally continuing from the after cursor.
func BuildSearchQuery(baseURL, subreddit, term string, sort types.SortBy, after string) string {
	params := []string{
		"q=" + url.QueryEscape(term),
		"sort_by=" + string(sort),
		fmt.Sprintf("limit=%d", searchPageLimit),
		"restrict_sr=true",
	}
	if after != "" {
		params = append(params, "after="+after)
	}
	return fmt.Sprintf("%s/r/%s/search?%s", baseURL, subreddit, strings.Join(params, "&"))
}

// BuildCommentTreeQuery returns the URL for a post's top-level comment tree,
// or for the subtree rooted at commentID when it is non-empty.
func BuildCommentTreeQuery(baseURL, postID, commentID string) string {
	if commentID != "" {
		return fmt.Sprintf("%s/comments/%s/comment/%s?limit=%d&sort=%s",
			baseURL, postID, commentID, commentTreeLimit, commentTreeSort)
	}
	return fmt.Sprintf("%s/comments/%s?limit=%d&sort=%s&depth=%d",
		baseURL, postID, commentTreeLimit, commentTreeSort, commentTreeDepth)
}

// BuildMoreChildrenQuery returns the batched morechildren URL for up to
// BatchSize comment ids belonging to postID.
func BuildMoreChildrenQuery(baseURL, postID string, commentIDs []string) string {
	params := []string{
		"link_id=t3_" + postID,
		"limit_children=false",
		"sort=" + commentTreeSort,
		"api_type=json",
		"children=" + strings.Join(commentIDs, ","),
	}
	return fmt.Sprintf("%s/api/morechildren?%s", baseURL, strings.Join(params, "&"))
}
