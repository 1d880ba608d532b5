package feed

import (
	"context"

	"chirp/internal/events"
	"chirp/internal/model"
	"chirp/internal/util"
)

// ComposeAPI is the slice of the API client the compose and edit forms
// need.
type ComposeAPI interface {
	CreateTweet(ctx context.Context, text string) (model.Tweet, error)
	EditTweet(ctx context.Context, id int64, text string) (model.Tweet, error)
}

// Composer backs the new-tweet and edit-tweet forms. Validation happens
// before any network call; successful mutations broadcast so mounted
// views pick them up.
type Composer struct {
	api ComposeAPI
	bus *events.Bus
}

func NewComposer(api ComposeAPI, bus *events.Bus) *Composer {
	return &Composer{api: api, bus: bus}
}

// Create posts a new tweet and broadcasts it; the home feed prepends it.
func (c *Composer) Create(ctx context.Context, text string) (model.Tweet, error) {
	text, err := util.ValidateContent(text)
	if err != nil {
		return model.Tweet{}, err
	}
	t, err := c.api.CreateTweet(ctx, text)
	if err != nil {
		return model.Tweet{}, err
	}
	c.bus.Publish(events.Event{Kind: events.TweetCreated, Tweet: t})
	return t, nil
}

// Edit updates a tweet's text. The server response carries the new text
// and edited flag; everything else merges from the prior local value.
func (c *Composer) Edit(ctx context.Context, prior model.Tweet, text string) (model.Tweet, error) {
	text, err := util.ValidateContent(text)
	if err != nil {
		return model.Tweet{}, err
	}
	updated, err := c.api.EditTweet(ctx, prior.ID, text)
	if err != nil {
		return model.Tweet{}, err
	}
	merged := model.ApplyEdit(prior, updated)
	c.bus.Publish(events.Event{Kind: events.TweetUpdated, Tweet: merged})
	return merged, nil
}
