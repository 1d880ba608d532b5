package feed

import (
	"context"
	"testing"
	"time"

	"chirp/internal/events"
	"chirp/internal/model"
)

func detailTweet() model.Tweet {
	t := mkTweet(7, 5, 2)
	t.Comments = []model.Comment{
		{ID: 2, MainPost: 7, Commenter: "bob", Commented: time.Now().UTC()},
		{ID: 1, MainPost: 7, Commenter: "eve"},
	}
	return t
}

func TestDetailAddCommentUpdatesEveryMountedView(t *testing.T) {
	bus := events.NewBus()
	api := &fakeAPI{
		tweet:   detailTweet(),
		home:    model.HomePage{RecentTweets: []model.Tweet{mkTweet(7, 5, 2)}, TotalPages: 1},
		comment: model.Comment{ID: 3, MainPost: 7, Commenter: "ada", Comment: "nice"},
	}
	d := NewDetail(api, bus)
	defer d.Close()
	h := NewHome(api, bus, 3)
	defer h.Close()
	if err := d.Load(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if err := h.LoadPage(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if err := d.AddComment(context.Background(), "nice"); err != nil {
		t.Fatal(err)
	}
	got, _ := d.Tweet()
	if got.CommentsCount != 3 {
		t.Fatalf("detail count = %d", got.CommentsCount)
	}
	if len(got.Comments) != 3 || got.Comments[0].ID != 3 {
		t.Fatalf("new comment not first: %+v", got.Comments)
	}
	recent := h.Recent()
	if recent[0].CommentsCount != 3 {
		t.Fatalf("sibling view count = %d", recent[0].CommentsCount)
	}
}

func TestDetailKeepsThreadThroughLikeBroadcast(t *testing.T) {
	bus := events.NewBus()
	api := &fakeAPI{tweet: detailTweet()}
	d := NewDetail(api, bus)
	defer d.Close()
	if err := d.Load(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	// a list view broadcasts its comment-less copy after a like
	bus.Publish(events.Event{Kind: events.TweetLiked, Tweet: model.Tweet{ID: 7, IsLiked: true, LikesCount: 6}})
	got, _ := d.Tweet()
	if !got.IsLiked || got.LikesCount != 6 {
		t.Fatalf("like not reconciled: %+v", got)
	}
	if len(got.Comments) != 2 {
		t.Fatalf("comment thread lost: %+v", got.Comments)
	}
}

func TestDetailIgnoresOtherTweets(t *testing.T) {
	bus := events.NewBus()
	api := &fakeAPI{tweet: detailTweet()}
	d := NewDetail(api, bus)
	defer d.Close()
	if err := d.Load(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	bus.Publish(events.Event{Kind: events.TweetLiked, Tweet: model.Tweet{ID: 8, LikesCount: 99}})
	got, _ := d.Tweet()
	if got.LikesCount != 5 {
		t.Fatalf("unrelated broadcast applied: %+v", got)
	}
}

func TestDetailAddCommentValidatesLocally(t *testing.T) {
	api := &fakeAPI{tweet: detailTweet()}
	d := NewDetail(api, events.NewBus())
	defer d.Close()
	if err := d.Load(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if err := d.AddComment(context.Background(), "  "); err == nil {
		t.Fatal("empty comment must fail before the network")
	}
}
