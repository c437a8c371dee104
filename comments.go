package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cnu-smr/reddit-collector/internal"
	"github.com/cnu-smr/reddit-collector/pkg/errors"
	"github.com/cnu-smr/reddit-collector/pkg/types"
)

// moreChildrenResponse is the envelope returned by /api/morechildren.
type moreChildrenResponse struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   struct {
			Things []*types.Thing `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

// GetComments fetches the full comment tree for a post (or, when
// req.CommentID is set, the subtree under that comment) and returns it as a
// flat ordered list. The initial nested tree is walked depth-first; ids left
// behind by "more" placeholders are then resolved in batched rounds, each
// round admitting only ids the server explicitly returned. Every comment id
// appears at most once in the result.
func (c *Client) GetComments(ctx context.Context, req *types.CommentsRequest) ([]*types.Comment, error) {
	if req == nil {
		return nil, fmt.Errorf("comments request cannot be nil")
	}
	if req.PostID == "" {
		return nil, fmt.Errorf("postID is required")
	}
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	query := internal.BuildCommentTreeQuery(c.config.BaseURL, req.PostID, req.CommentID)
	body, err := c.exec.Get(ctx, query)
	if err != nil {
		return nil, err
	}

	// The comment-tree endpoint returns [post listing, comment listing].
	// Anything else means the upstream contract changed.
	var elements []*types.Thing
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, &errors.ProtocolError{Operation: "get comments", Err: err}
	}
	if len(elements) != 2 {
		return nil, &errors.ProtocolError{
			Operation: "get comments",
			Message:   fmt.Sprintf("expected comment response to have 2 top-level elements, got %d", len(elements)),
		}
	}

	walk := internal.NewTreeWalk(c.parser)
	if err := walk.WalkListing(elements[1]); err != nil {
		return nil, &errors.ProtocolError{Operation: "get comments", Err: err}
	}

	if err := c.expandMoreChildren(ctx, req.PostID, walk); err != nil {
		return nil, err
	}

	c.logger.Info("comments query complete",
		"post_id", req.PostID,
		"comment_id", req.CommentID,
		"comments", len(walk.Comments))

	return walk.Comments, nil
}

// expandMoreChildren resolves the walk's frontier in batched rounds. Each
// round partitions the frontier into chunks of at most BatchSize ids and
// issues one morechildren request per chunk; without batching the naive
// approach would cost one request per unresolved node. Returned "more"
// placeholders with a positive count defer their ids to the next round, so
// only ids the server says are real are ever fetched. Rounds repeat until the
// frontier empties, which is guaranteed because admitted ids are never
// re-admitted and a post's comment tree is finite.
func (c *Client) expandMoreChildren(ctx context.Context, postID string, walk *internal.TreeWalk) error {
	frontier := walk.Frontier

	for len(frontier) > 0 {
		var next []string

		for start := 0; start < len(frontier); start += internal.BatchSize {
			end := start + internal.BatchSize
			if end > len(frontier) {
				end = len(frontier)
			}

			query := internal.BuildMoreChildrenQuery(c.config.BaseURL, postID, frontier[start:end])
			body, err := c.exec.Get(ctx, query)
			if err != nil {
				return err
			}

			var resp moreChildrenResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return &errors.ProtocolError{Operation: "more children", Err: err}
			}
			if len(resp.JSON.Errors) > 0 {
				return &errors.ProtocolError{
					Operation: "more children",
					Message:   fmt.Sprintf("API error: %v", resp.JSON.Errors[0]),
				}
			}

			for _, thing := range resp.JSON.Data.Things {
				switch thing.Kind {
				case types.KindMore:
					more, err := c.parser.ParseMore(thing)
					if err != nil {
						return &errors.ProtocolError{Operation: "more children", Err: err}
					}
					if more.Count > 0 {
						next = walk.Admit(more.Children, next)
					}
				case types.KindComment:
					comment, err := c.parser.ParseComment(thing)
					if err != nil {
						return &errors.ProtocolError{Operation: "more children", Err: err}
					}
					// Replies arrive here as a flat id list, not a nested tree.
					if walk.Append(comment) && len(comment.Replies.IDs) > 0 {
						next = walk.Admit(comment.Replies.IDs, next)
					}
				default:
					return &errors.ProtocolError{
						Operation: "more children",
						Message:   fmt.Sprintf("unexpected kind %q in morechildren response", thing.Kind),
					}
				}
			}
		}

		frontier = next
	}

	return nil
}
