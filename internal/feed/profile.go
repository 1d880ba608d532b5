package feed

import (
	"context"
	"errors"
	"sync"

	"chirp/internal/events"
	"chirp/internal/model"
)

// ProfileAPI is the slice of the API client the profile view needs.
type ProfileAPI interface {
	FetchProfile(ctx context.Context, username string) (model.Profile, error)
	ToggleFollow(ctx context.Context, username string) error
	LikeAPI
}

// Profile is a user page: header counts plus the user's tweets, liked
// tweets and comments. Follow state is patched optimistically after a
// successful toggle rather than re-fetched.
type Profile struct {
	api ProfileAPI
	bus *events.Bus
	sub *events.Subscription

	mu     sync.Mutex
	data   model.Profile
	loaded bool
}

func NewProfile(api ProfileAPI, bus *events.Bus) *Profile {
	p := &Profile{api: api, bus: bus}
	p.sub = bus.Subscribe(p.handle,
		events.TweetUpdated, events.TweetLiked, events.CommentAdded)
	return p
}

// Close unsubscribes from the bus.
func (p *Profile) Close() { p.bus.Unsubscribe(p.sub) }

// Load fetches the profile for username.
func (p *Profile) Load(ctx context.Context, username string) error {
	data, err := p.api.FetchProfile(ctx, username)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.data = data
	p.loaded = true
	p.mu.Unlock()
	return nil
}

// Data returns the loaded profile, if any.
func (p *Profile) Data() (model.Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data, p.loaded
}

// ToggleFollow follows or unfollows the profile's user, then flips the
// local follow flag and follower count on success.
func (p *Profile) ToggleFollow(ctx context.Context) error {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return errors.New("no profile loaded")
	}
	username := p.data.User.Username
	p.mu.Unlock()

	if err := p.api.ToggleFollow(ctx, username); err != nil {
		return err
	}
	p.mu.Lock()
	if p.data.User.IsFollowing {
		p.data.User.IsFollowing = false
		p.data.User.FollowersCount--
	} else {
		p.data.User.IsFollowing = true
		p.data.User.FollowersCount++
	}
	p.mu.Unlock()
	return nil
}

// ToggleLike likes or unlikes a tweet currently held by this view.
func (p *Profile) ToggleLike(ctx context.Context, id int64) error {
	p.mu.Lock()
	var found *model.Tweet
	for _, list := range [][]model.Tweet{p.data.Tweets, p.data.LikedTweets} {
		for i := range list {
			if list[i].ID == id {
				found = &list[i]
				break
			}
		}
	}
	if found == nil {
		p.mu.Unlock()
		return errNotInView(id)
	}
	t := *found
	p.mu.Unlock()
	return toggleLike(ctx, p.api, p.bus, t)
}

func (p *Profile) handle(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return
	}
	p.data.Tweets = model.ReplaceByID(p.data.Tweets, ev.Tweet)
	p.data.LikedTweets = model.ReplaceByID(p.data.LikedTweets, ev.Tweet)
}
