package feed

import (
	"context"
	"errors"
	"sync"

	"chirp/internal/events"
	"chirp/internal/model"
	"chirp/internal/util"
)

// DetailAPI is the slice of the API client the detail view needs.
type DetailAPI interface {
	FetchTweet(ctx context.Context, id int64) (model.Tweet, error)
	AddComment(ctx context.Context, id int64, text string) (model.Comment, error)
	LikeAPI
}

// Detail is the single-tweet view: the tweet plus its full comment
// thread. It is the only view that holds comments, so broadcasts that
// omit them must not wipe the thread (model.Reconcile).
type Detail struct {
	api DetailAPI
	bus *events.Bus
	sub *events.Subscription

	mu     sync.Mutex
	tweet  model.Tweet
	loaded bool
}

func NewDetail(api DetailAPI, bus *events.Bus) *Detail {
	d := &Detail{api: api, bus: bus}
	d.sub = bus.Subscribe(d.handle,
		events.TweetUpdated, events.TweetLiked, events.CommentAdded)
	return d
}

// Close unsubscribes from the bus.
func (d *Detail) Close() { d.bus.Unsubscribe(d.sub) }

// Load fetches the tweet with its comments.
func (d *Detail) Load(ctx context.Context, id int64) error {
	t, err := d.api.FetchTweet(ctx, id)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.tweet = t
	d.loaded = true
	d.mu.Unlock()
	return nil
}

// Tweet returns the loaded tweet, if any.
func (d *Detail) Tweet() (model.Tweet, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tweet, d.loaded
}

// AddComment validates and posts a comment, then broadcasts the updated
// tweet so every other view holding it bumps its count.
func (d *Detail) AddComment(ctx context.Context, text string) error {
	text, err := util.ValidateContent(text)
	if err != nil {
		return err
	}
	d.mu.Lock()
	if !d.loaded {
		d.mu.Unlock()
		return errors.New("no tweet loaded")
	}
	t := d.tweet
	d.mu.Unlock()

	c, err := d.api.AddComment(ctx, t.ID, text)
	if err != nil {
		return err
	}
	d.bus.Publish(events.Event{Kind: events.CommentAdded, Tweet: model.ApplyCommentAdded(t, c)})
	return nil
}

// ToggleLike likes or unlikes the loaded tweet.
func (d *Detail) ToggleLike(ctx context.Context) error {
	d.mu.Lock()
	if !d.loaded {
		d.mu.Unlock()
		return errors.New("no tweet loaded")
	}
	t := d.tweet
	d.mu.Unlock()
	return toggleLike(ctx, d.api, d.bus, t)
}

func (d *Detail) handle(ev events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded || ev.Tweet.ID != d.tweet.ID {
		return
	}
	d.tweet = model.Reconcile(d.tweet, ev.Tweet)
}
