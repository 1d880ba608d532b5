package feed

import (
	"context"
	"sync"

	"chirp/internal/events"
	"chirp/internal/model"
)

// FollowingAPI is the slice of the API client the following feed needs.
type FollowingAPI interface {
	FetchFollowingFeed(ctx context.Context, page int) (model.FeedPage, error)
	LikeAPI
}

// Following is the infinite-scroll feed of people the viewer follows.
// Pages accumulate append-only; the server does not send duplicate ids and
// the view does not defend against them. Overlapping loads for the same
// feed are suppressed.
type Following struct {
	api FollowingAPI
	bus *events.Bus
	sub *events.Subscription

	mu         sync.Mutex
	tweets     []model.Tweet
	page       int
	totalPages int
	hasMore    bool
	inFlight   bool
}

func NewFollowing(api FollowingAPI, bus *events.Bus) *Following {
	f := &Following{api: api, hasMore: true, bus: bus}
	// Created is deliberately absent: new tweets prepend to the main feed
	// only.
	f.sub = bus.Subscribe(f.handle,
		events.TweetUpdated, events.TweetLiked, events.CommentAdded)
	return f
}

// Close unsubscribes from the bus.
func (f *Following) Close() { f.bus.Unsubscribe(f.sub) }

// Load resets the feed and fetches the first page.
func (f *Following) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil
	}
	f.inFlight = true
	f.mu.Unlock()
	defer f.clearInFlight()

	page, err := f.api.FetchFollowingFeed(ctx, 1)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.tweets = page.Tweets
	f.page = 1
	f.totalPages = page.TotalPages
	f.hasMore = 1 < page.TotalPages
	f.mu.Unlock()
	return nil
}

// LoadMore fetches the next page when the viewer reaches the end. It
// reports whether a fetch actually ran: a call while one is in flight, or
// past the last page, is a no-op.
func (f *Following) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.inFlight || !f.hasMore {
		f.mu.Unlock()
		return false, nil
	}
	f.inFlight = true
	next := f.page + 1
	f.mu.Unlock()
	defer f.clearInFlight()

	page, err := f.api.FetchFollowingFeed(ctx, next)
	if err != nil {
		return false, err
	}
	f.mu.Lock()
	f.tweets = append(f.tweets, page.Tweets...)
	f.page = next
	f.totalPages = page.TotalPages
	f.hasMore = next < page.TotalPages
	f.mu.Unlock()
	return true, nil
}

func (f *Following) clearInFlight() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

// ToggleLike likes or unlikes a tweet currently held by this view.
func (f *Following) ToggleLike(ctx context.Context, id int64) error {
	f.mu.Lock()
	var target *model.Tweet
	for i := range f.tweets {
		if f.tweets[i].ID == id {
			target = &f.tweets[i]
			break
		}
	}
	if target == nil {
		f.mu.Unlock()
		return errNotInView(id)
	}
	t := *target
	f.mu.Unlock()
	return toggleLike(ctx, f.api, f.bus, t)
}

func (f *Following) handle(ev events.Event) {
	f.mu.Lock()
	f.tweets = model.ReplaceByID(f.tweets, ev.Tweet)
	f.mu.Unlock()
}

// Tweets returns the accumulated feed.
func (f *Following) Tweets() []model.Tweet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Tweet(nil), f.tweets...)
}

// HasMore reports whether further pages remain.
func (f *Following) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Page returns the last fetched page number.
func (f *Following) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}
