package model

import (
	"testing"
	"time"
)

func TestApplyLikeResultTouchesOnlyLikeFields(t *testing.T) {
	orig := Tweet{
		ID: 42, Poster: "ada", Tweet: "hello", LikesCount: 10,
		CommentsCount: 3, IsLiked: false,
		Comments: []Comment{{ID: 1, MainPost: 42}},
	}
	got := ApplyLikeResult(orig, LikeResult{Success: true, Liked: true, LikesCount: 11})
	if !got.IsLiked || got.LikesCount != 11 {
		t.Fatalf("like fields not applied: %+v", got)
	}
	if got.CommentsCount != 3 || len(got.Comments) != 1 || got.Tweet != "hello" {
		t.Fatalf("unrelated fields changed: %+v", got)
	}
}

func TestLikeTogglePairRestoresOriginalState(t *testing.T) {
	orig := Tweet{ID: 1, LikesCount: 5, IsLiked: false}
	liked := ApplyLikeResult(orig, LikeResult{Liked: true, LikesCount: 6})
	back := ApplyLikeResult(liked, LikeResult{Liked: false, LikesCount: 5})
	if back.IsLiked != orig.IsLiked || back.LikesCount != orig.LikesCount {
		t.Fatalf("toggle pair not idempotent: %+v", back)
	}
}

func TestApplyCommentAddedPrependsAndCounts(t *testing.T) {
	orig := Tweet{ID: 7, CommentsCount: 2, Comments: []Comment{{ID: 1}, {ID: 2}}}
	got := ApplyCommentAdded(orig, Comment{ID: 3, MainPost: 7})
	if got.CommentsCount != 3 {
		t.Fatalf("expected count 3, got %d", got.CommentsCount)
	}
	if len(got.Comments) != 3 || got.Comments[0].ID != 3 {
		t.Fatalf("new comment not first: %+v", got.Comments)
	}
}

func TestReconcileKeepsCommentsWhenBroadcastOmitsThem(t *testing.T) {
	local := Tweet{ID: 9, Comments: []Comment{{ID: 1}}, LikesCount: 1}
	incoming := Tweet{ID: 9, LikesCount: 2}
	got := Reconcile(local, incoming)
	if got.LikesCount != 2 {
		t.Fatalf("broadcast fields should win, got %+v", got)
	}
	if len(got.Comments) != 1 {
		t.Fatalf("existing comments lost: %+v", got)
	}
}

func TestReplaceByIDIgnoresUnknownIDs(t *testing.T) {
	ts := []Tweet{{ID: 1}, {ID: 2}}
	out := ReplaceByID(ts, Tweet{ID: 99, LikesCount: 5})
	if len(out) != 2 {
		t.Fatalf("list grew from broadcast: %d", len(out))
	}
	for _, tw := range out {
		if tw.LikesCount != 0 {
			t.Fatalf("unexpected replacement: %+v", tw)
		}
	}
}

func TestSortByLikesTieBreaksOnDate(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)
	ts := []Tweet{
		{ID: 1, LikesCount: 5, DatePosted: old},
		{ID: 2, LikesCount: 9, DatePosted: old},
		{ID: 3, LikesCount: 5, DatePosted: recent},
	}
	SortByLikes(ts)
	want := []int64{2, 3, 1}
	for i, id := range want {
		if ts[i].ID != id {
			t.Fatalf("order %v, want %v", []int64{ts[0].ID, ts[1].ID, ts[2].ID}, want)
		}
	}
}

func TestSortByCommentsTieBreaksOnDate(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(time.Hour)
	ts := []Tweet{
		{ID: 1, CommentsCount: 2, DatePosted: recent},
		{ID: 2, CommentsCount: 2, DatePosted: old},
		{ID: 3, CommentsCount: 7, DatePosted: old},
	}
	SortByComments(ts)
	if ts[0].ID != 3 || ts[1].ID != 1 || ts[2].ID != 2 {
		t.Fatalf("unexpected order: %d %d %d", ts[0].ID, ts[1].ID, ts[2].ID)
	}
}
