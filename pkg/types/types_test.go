package types

import (
	"encoding/json"
	"testing"
)

func TestSessionAuthorization(t *testing.T) {
	s := Session{AccessToken: "abc123"}
	// Reddit's OAuth endpoints want the lowercase scheme.
	if got := s.Authorization(); got != "bearer abc123" {
		t.Errorf("Authorization() = %q", got)
	}
}

func TestRepliesUnmarshalEmpty(t *testing.T) {
	for _, raw := range []string{`""`, `null`} {
		var r Replies
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatalf("unmarshal %s failed: %v", raw, err)
		}
		if !r.IsEmpty() {
			t.Errorf("replies %s should be empty, got %+v", raw, r)
		}
	}
}

func TestRepliesUnmarshalNestedListing(t *testing.T) {
	raw := `{"kind": "Listing", "data": {"children": [{"kind": "t1", "data": {"id": "c1"}}]}}`

	var r Replies
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if r.Thing == nil || r.Thing.Kind != KindListing {
		t.Fatalf("expected nested Listing, got %+v", r)
	}
	if len(r.IDs) != 0 {
		t.Errorf("IDs should be empty for nested shape, got %v", r.IDs)
	}
}

func TestRepliesUnmarshalFlatIDs(t *testing.T) {
	var r Replies
	if err := json.Unmarshal([]byte(`["c1", "c2", "c3"]`), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(r.IDs) != 3 || r.IDs[0] != "c1" {
		t.Errorf("IDs = %v, want [c1 c2 c3]", r.IDs)
	}
	if r.Thing != nil {
		t.Errorf("Thing should be nil for flat shape, got %+v", r.Thing)
	}
}

func TestRepliesUnmarshalBadShape(t *testing.T) {
	var r Replies
	if err := json.Unmarshal([]byte(`42`), &r); err == nil {
		t.Error("expected error for numeric replies field")
	}
}

func TestRepliesMarshalMirrorsWireFormat(t *testing.T) {
	empty, err := json.Marshal(Replies{})
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != `""` {
		t.Errorf("empty replies marshal to %s, want \"\"", empty)
	}

	flat, err := json.Marshal(Replies{IDs: []string{"c1", "c2"}})
	if err != nil {
		t.Fatal(err)
	}
	if string(flat) != `["c1","c2"]` {
		t.Errorf("flat replies marshal to %s", flat)
	}
}

func TestCommentUnmarshalWithReplies(t *testing.T) {
	raw := `{
		"id": "c1",
		"name": "t1_c1",
		"parent_id": "t3_p1",
		"body": "hello",
		"score": 7,
		"replies": {"kind": "Listing", "data": {"children": []}}
	}`

	var c Comment
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.ID != "c1" || c.ParentID != "t3_p1" || c.Score != 7 {
		t.Errorf("unexpected comment: %+v", c)
	}
	if c.Replies.Thing == nil {
		t.Error("nested replies listing was dropped")
	}
}
