package internal

import (
	"strings"
	"testing"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

const testBaseURL = "https://oauth.reddit.com"

func TestBuildSearchQuery(t *testing.T) {
	got := BuildSearchQuery(testBaseURL, "science", "replication", types.SortNew, "")
	want := "https://oauth.reddit.com/r/science/search?q=replication&sort_by=new&limit=100&restrict_sr=true"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildSearchQueryWithAfterCursor(t *testing.T) {
	got := BuildSearchQuery(testBaseURL, "science", "replication", types.SortTop, "t3_abc123")
	want := "https://oauth.reddit.com/r/science/search?q=replication&sort_by=top&limit=100&restrict_sr=true&after=t3_abc123"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildSearchQueryEscapesTerm(t *testing.T) {
	got := BuildSearchQuery(testBaseURL, "science", "vaccine hesitancy", types.SortNew, "")
	if !strings.Contains(got, "q=vaccine+hesitancy") {
		t.Errorf("term not escaped: %s", got)
	}
}

func TestBuildCommentTreeQuery(t *testing.T) {
	got := BuildCommentTreeQuery(testBaseURL, "abc123", "")
	want := "https://oauth.reddit.com/comments/abc123?limit=500&sort=old&depth=10"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildCommentTreeQuerySubtree(t *testing.T) {
	got := BuildCommentTreeQuery(testBaseURL, "abc123", "def456")
	want := "https://oauth.reddit.com/comments/abc123/comment/def456?limit=500&sort=old"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildMoreChildrenQuery(t *testing.T) {
	got := BuildMoreChildrenQuery(testBaseURL, "abc123", []string{"c1", "c2", "c3"})
	want := "https://oauth.reddit.com/api/morechildren?link_id=t3_abc123&limit_children=false&sort=old&api_type=json&children=c1,c2,c3"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
