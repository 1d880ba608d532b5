package feed

import (
	"context"
	"fmt"
	"time"

	"chirp/internal/model"
)

// fakeAPI is an in-memory stand-in for the API client, shared by the
// view-model tests.
type fakeAPI struct {
	home       model.HomePage
	homeErr    error
	feedPages  map[int]model.FeedPage
	tweet      model.Tweet
	likeResult model.LikeResult
	likeErr    error
	likeCalls  int
	comment    model.Comment
	profile    model.Profile
	followErr  error
	created    model.Tweet
	edited     model.Tweet

	// hooks for concurrency tests
	feedStarted chan struct{}
	feedRelease chan struct{}
}

func (f *fakeAPI) FetchHome(ctx context.Context, page int) (model.HomePage, error) {
	return f.home, f.homeErr
}

func (f *fakeAPI) FetchFollowingFeed(ctx context.Context, page int) (model.FeedPage, error) {
	if f.feedStarted != nil {
		f.feedStarted <- struct{}{}
		<-f.feedRelease
	}
	p, ok := f.feedPages[page]
	if !ok {
		return model.FeedPage{}, fmt.Errorf("no page %d", page)
	}
	return p, nil
}

func (f *fakeAPI) FetchTweet(ctx context.Context, id int64) (model.Tweet, error) {
	return f.tweet, nil
}

func (f *fakeAPI) ToggleLike(ctx context.Context, id int64) (model.LikeResult, error) {
	f.likeCalls++
	return f.likeResult, f.likeErr
}

func (f *fakeAPI) AddComment(ctx context.Context, id int64, text string) (model.Comment, error) {
	return f.comment, nil
}

func (f *fakeAPI) FetchProfile(ctx context.Context, username string) (model.Profile, error) {
	return f.profile, nil
}

func (f *fakeAPI) ToggleFollow(ctx context.Context, username string) error {
	return f.followErr
}

func (f *fakeAPI) CreateTweet(ctx context.Context, text string) (model.Tweet, error) {
	return f.created, nil
}

func (f *fakeAPI) EditTweet(ctx context.Context, id int64, text string) (model.Tweet, error) {
	return f.edited, nil
}

func mkTweet(id int64, likes, comments int) model.Tweet {
	return model.Tweet{
		ID: id, Poster: "ada", Tweet: fmt.Sprintf("tweet %d", id),
		DatePosted:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
		LikesCount:    likes,
		CommentsCount: comments,
	}
}

func mkTweets(n int) []model.Tweet {
	out := make([]model.Tweet, n)
	for i := range out {
		out[i] = mkTweet(int64(i+1), i, i)
	}
	return out
}
