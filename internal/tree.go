package internal

import (
	"fmt"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

// maxTreeDepth bounds recursion during the initial walk. Reddit itself caps
// thread depth far below this; hitting the bound means the response is
// malformed or adversarial.
const maxTreeDepth = 256

// TreeWalk accumulates a depth-first flattening of a comment tree. Resolved
// comments land in Comments in traversal order; ids pending expansion land in
// Frontier. The id sets guarantee that no comment is appended twice and no id
// is admitted to a frontier twice, which is what makes the batched expansion
// loop terminate without re-fetching.
type TreeWalk struct {
	Comments []*types.Comment
	Frontier []string

	parser   *Parser
	appended map[string]struct{}
	enqueued map[string]struct{}
}

// NewTreeWalk returns an empty walk using parser for node decoding.
func NewTreeWalk(parser *Parser) *TreeWalk {
	return &TreeWalk{
		parser:   parser,
		appended: make(map[string]struct{}),
		enqueued: make(map[string]struct{}),
	}
}

// WalkListing walks a comment listing depth-first. Ordinary comments are
// appended and their nested replies recursed into; "more" placeholders are not
// recursed, their child ids extend the frontier instead. More than one
// placeholder per level is tolerated.
func (tw *TreeWalk) WalkListing(listing *types.Thing) error {
	return tw.walk(listing, 0)
}

func (tw *TreeWalk) walk(listing *types.Thing, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("comment tree exceeds maximum depth %d", maxTreeDepth)
	}

	listingData, err := tw.parser.ParseListing(listing)
	if err != nil {
		return err
	}

	for _, child := range listingData.Children {
		switch child.Kind {
		case types.KindComment:
			comment, err := tw.parser.ParseComment(child)
			if err != nil {
				return err
			}
			tw.Append(comment)
			if comment.Replies.Thing != nil {
				if err := tw.walk(comment.Replies.Thing, depth+1); err != nil {
					return err
				}
			}
		case types.KindMore:
			more, err := tw.parser.ParseMore(child)
			if err != nil {
				return err
			}
			tw.Frontier = tw.admit(more.Children, tw.Frontier)
		default:
			return fmt.Errorf("unexpected kind %q in comment listing", child.Kind)
		}
	}

	return nil
}

// Append records a resolved comment, skipping ids already seen. It reports
// whether the comment was added.
func (tw *TreeWalk) Append(comment *types.Comment) bool {
	if _, ok := tw.appended[comment.ID]; ok {
		return false
	}
	tw.appended[comment.ID] = struct{}{}
	tw.Comments = append(tw.Comments, comment)
	return true
}

// Admit appends to next the ids that are neither resolved nor already pending,
// marking them pending. Used by the expansion loop to build the next frontier.
func (tw *TreeWalk) Admit(ids []string, next []string) []string {
	return tw.admit(ids, next)
}

func (tw *TreeWalk) admit(ids []string, frontier []string) []string {
	for _, id := range ids {
		if _, ok := tw.appended[id]; ok {
			continue
		}
		if _, ok := tw.enqueued[id]; ok {
			continue
		}
		tw.enqueued[id] = struct{}{}
		frontier = append(frontier, id)
	}
	return frontier
}
