package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/cnu-smr/reddit-collector/pkg/types"
)

func mustThing(t *testing.T, raw string) *types.Thing {
	t.Helper()
	var thing types.Thing
	if err := json.Unmarshal([]byte(raw), &thing); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return &thing
}

func commentIDs(comments []*types.Comment) []string {
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}

func TestWalkListingDepthFirstOrder(t *testing.T) {
	// c1 has a nested reply c2; c3 is a sibling of c1. Depth-first order is
	// c1, c2, c3.
	listing := mustThing(t, `{
		"kind": "Listing",
		"data": {"children": [
			{"kind": "t1", "data": {"id": "c1", "body": "top", "replies": {
				"kind": "Listing",
				"data": {"children": [
					{"kind": "t1", "data": {"id": "c2", "body": "reply", "replies": ""}}
				]}
			}}},
			{"kind": "t1", "data": {"id": "c3", "body": "sibling", "replies": ""}}
		]}
	}`)

	walk := NewTreeWalk(NewParser())
	if err := walk.WalkListing(listing); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	got := commentIDs(walk.Comments)
	want := []string{"c1", "c2", "c3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if len(walk.Frontier) != 0 {
		t.Errorf("unexpected frontier: %v", walk.Frontier)
	}
}

func TestWalkListingCollectsMoreIntoFrontier(t *testing.T) {
	listing := mustThing(t, `{
		"kind": "Listing",
		"data": {"children": [
			{"kind": "t1", "data": {"id": "c1", "replies": ""}},
			{"kind": "more", "data": {"count": 3, "children": ["m1", "m2", "m3"]}}
		]}
	}`)

	walk := NewTreeWalk(NewParser())
	if err := walk.WalkListing(listing); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(walk.Comments) != 1 || walk.Comments[0].ID != "c1" {
		t.Errorf("comments = %v, want just c1", commentIDs(walk.Comments))
	}
	if len(walk.Frontier) != 3 {
		t.Fatalf("frontier = %v, want 3 pending ids", walk.Frontier)
	}
}

func TestWalkListingToleratesMultipleMoreNodes(t *testing.T) {
	listing := mustThing(t, `{
		"kind": "Listing",
		"data": {"children": [
			{"kind": "more", "data": {"count": 1, "children": ["m1"]}},
			{"kind": "t1", "data": {"id": "c1", "replies": ""}},
			{"kind": "more", "data": {"count": 2, "children": ["m2", "m3"]}}
		]}
	}`)

	walk := NewTreeWalk(NewParser())
	if err := walk.WalkListing(listing); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	want := []string{"m1", "m2", "m3"}
	if len(walk.Frontier) != len(want) {
		t.Fatalf("frontier = %v, want %v", walk.Frontier, want)
	}
	for i := range want {
		if walk.Frontier[i] != want[i] {
			t.Fatalf("frontier = %v, want %v", walk.Frontier, want)
		}
	}
}

func TestWalkListingDepthGuard(t *testing.T) {
	// Build a chain deeper than the guard allows.
	inner := `{"kind": "t1", "data": {"id": "c-bottom", "replies": ""}}`
	for i := maxTreeDepth + 1; i > 0; i-- {
		inner = fmt.Sprintf(
			`{"kind": "t1", "data": {"id": "c%d", "replies": {"kind": "Listing", "data": {"children": [%s]}}}}`,
			i, inner)
	}
	listing := mustThing(t, `{"kind": "Listing", "data": {"children": [`+inner+`]}}`)

	walk := NewTreeWalk(NewParser())
	err := walk.WalkListing(listing)
	if err == nil {
		t.Fatal("expected depth guard error")
	}
	if !strings.Contains(err.Error(), "maximum depth") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAppendSkipsDuplicates(t *testing.T) {
	walk := NewTreeWalk(NewParser())

	if !walk.Append(&types.Comment{ID: "c1"}) {
		t.Error("first append should succeed")
	}
	if walk.Append(&types.Comment{ID: "c1"}) {
		t.Error("duplicate append should be skipped")
	}
	if len(walk.Comments) != 1 {
		t.Errorf("comments = %d, want 1", len(walk.Comments))
	}
}

func TestAdmitNeverReadmits(t *testing.T) {
	walk := NewTreeWalk(NewParser())
	walk.Append(&types.Comment{ID: "resolved"})

	var next []string
	next = walk.Admit([]string{"resolved", "pending", "pending", "fresh"}, next)

	want := []string{"pending", "fresh"}
	if len(next) != len(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
	for i := range want {
		if next[i] != want[i] {
			t.Fatalf("next = %v, want %v", next, want)
		}
	}

	// A second round must not re-admit ids from the first.
	var again []string
	again = walk.Admit([]string{"pending", "fresh"}, again)
	if len(again) != 0 {
		t.Errorf("re-admitted ids: %v", again)
	}
}
