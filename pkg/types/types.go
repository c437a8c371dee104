// Package types defines the wire-level Reddit objects the collector consumes.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Thing kinds as they appear on the wire.
const (
	KindListing = "Listing"
	KindComment = "t1"
	KindPost    = "t3"
	KindMore    = "more"
)

// SortBy enumerates the sort orders accepted by the search endpoint.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortHot       SortBy = "hot"
	SortTop       SortBy = "top"
	SortNew       SortBy = "new"
	SortComments  SortBy = "comments"
)

// Session holds the credentials state for one authenticated process. It is
// created once at startup and never mutated; token refresh is out of scope.
type Session struct {
	AccessToken string
	UserAgent   string
}

// Authorization returns the value for the Authorization request header.
// Reddit's OAuth endpoints accept the lowercase "bearer" scheme.
func (s Session) Authorization() string {
	return "bearer " + s.AccessToken
}

// Thing is the platform's generic content node. Kind discriminates the
// variant; Data holds the raw payload decoded by internal.Parser.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// ListingData is the paginated container returned by search and comment-tree
// endpoints. AfterFullname is empty when pagination is exhausted.
type ListingData struct {
	AfterFullname  string   `json:"after"`
	BeforeFullname string   `json:"before"`
	Children       []*Thing `json:"children"`
}

// Post represents a submission as returned by the search endpoint.
type Post struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"` // fullname, e.g. "t3_abc123"
	Subreddit     string  `json:"subreddit"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	Author        string  `json:"author"`
	Created       float64 `json:"created"`
	CreatedUTC    float64 `json:"created_utc"`
	LinkFlairText *string `json:"link_flair_text"`
	Permalink     string  `json:"permalink"`
	Score         int     `json:"score"`
	NumComments   int     `json:"num_comments"`
	URL           string  `json:"url"`
	Over18        bool    `json:"over_18"`
	Stickied      bool    `json:"stickied"`

	// Query records the search term that yielded this post (provenance for
	// downstream analysis). It is not part of the wire format.
	Query string `json:"query,omitempty"`
}

// Comment represents a single comment node.
type Comment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"` // fullname, e.g. "t1_def456"
	ParentID   string  `json:"parent_id"`
	LinkID     string  `json:"link_id"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	Depth      int     `json:"depth"`
	Replies    Replies `json:"replies"`
}

// More is the placeholder node standing in for children omitted from the
// initial tree. Children carries the not-yet-fetched comment ids.
type More struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID string   `json:"parent_id"`
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	Children []string `json:"children"`
}

// Replies is the tagged union behind a comment's "replies" field. The wire
// format varies by endpoint:
//
//   - comment-tree responses: "" when empty, otherwise a nested Listing Thing
//   - morechildren responses: a flat array of comment ids
type Replies struct {
	// Thing is the nested Listing, present only in comment-tree responses.
	Thing *Thing
	// IDs are pending child ids, present only in morechildren responses.
	IDs []string
}

// IsEmpty reports whether the comment declared no further replies.
func (r Replies) IsEmpty() bool {
	return r.Thing == nil && len(r.IDs) == 0
}

// UnmarshalJSON implements json.Unmarshaler for the three wire shapes.
func (r *Replies) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == `""` || s == "null" {
		r.Thing = nil
		r.IDs = nil
		return nil
	}

	if strings.HasPrefix(s, "[") {
		return json.Unmarshal(data, &r.IDs)
	}

	var thing Thing
	if err := json.Unmarshal(data, &thing); err != nil {
		return fmt.Errorf("unrecognized shape for 'replies' field: %w", err)
	}
	r.Thing = &thing
	return nil
}

// MarshalJSON mirrors the wire format so raw dumps round-trip.
func (r Replies) MarshalJSON() ([]byte, error) {
	if r.Thing != nil {
		return json.Marshal(r.Thing)
	}
	if len(r.IDs) > 0 {
		return json.Marshal(r.IDs)
	}
	return json.Marshal("")
}

// CommentsRequest describes a comment-tree fetch. CommentID is optional; when
// set, only the subtree rooted at that comment is fetched.
type CommentsRequest struct {
	PostID    string
	CommentID string
}
