package feed

import (
	"context"
	"errors"
	"testing"

	"chirp/internal/events"
	"chirp/internal/model"
)

func sampleProfile() model.Profile {
	return model.Profile{
		User: model.ProfileUser{
			Username: "grace", FollowersCount: 10, FollowingCount: 4,
		},
		Tweets:      mkTweets(2),
		LikedTweets: []model.Tweet{mkTweet(9, 3, 0)},
	}
}

func TestProfileFollowTogglePatchesCounts(t *testing.T) {
	api := &fakeAPI{profile: sampleProfile()}
	p := NewProfile(api, events.NewBus())
	defer p.Close()
	if err := p.Load(context.Background(), "grace"); err != nil {
		t.Fatal(err)
	}
	if err := p.ToggleFollow(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, _ := p.Data()
	if !data.User.IsFollowing || data.User.FollowersCount != 11 {
		t.Fatalf("follow not applied: %+v", data.User)
	}
	if err := p.ToggleFollow(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, _ = p.Data()
	if data.User.IsFollowing || data.User.FollowersCount != 10 {
		t.Fatalf("unfollow not applied: %+v", data.User)
	}
}

func TestProfileFollowFailureLeavesCounts(t *testing.T) {
	api := &fakeAPI{profile: sampleProfile(), followErr: errors.New("boom")}
	p := NewProfile(api, events.NewBus())
	defer p.Close()
	if err := p.Load(context.Background(), "grace"); err != nil {
		t.Fatal(err)
	}
	if err := p.ToggleFollow(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	data, _ := p.Data()
	if data.User.IsFollowing || data.User.FollowersCount != 10 {
		t.Fatalf("failed toggle mutated state: %+v", data.User)
	}
}

func TestProfileReconcilesBothTweetLists(t *testing.T) {
	bus := events.NewBus()
	api := &fakeAPI{profile: sampleProfile()}
	p := NewProfile(api, bus)
	defer p.Close()
	if err := p.Load(context.Background(), "grace"); err != nil {
		t.Fatal(err)
	}
	bus.Publish(events.Event{Kind: events.TweetLiked, Tweet: model.Tweet{ID: 9, IsLiked: true, LikesCount: 4}})
	data, _ := p.Data()
	if data.LikedTweets[0].LikesCount != 4 || !data.LikedTweets[0].IsLiked {
		t.Fatalf("liked_tweets not reconciled: %+v", data.LikedTweets[0])
	}
}
