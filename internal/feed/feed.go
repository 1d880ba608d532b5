// Package feed holds the view-models behind every screen: the paginated
// home feed, the infinite-scroll following feed, the tweet detail page and
// the profile page. Each one fetches its own transient copy of the data,
// mutates it through the API, and keeps it consistent with every other
// mounted view by reconciling broadcasts from the event bus. Nothing here
// is persisted; copies are discarded when the view goes away.
package feed

import (
	"context"
	"fmt"

	"chirp/internal/events"
	"chirp/internal/model"
)

func errNotInView(id int64) error { return fmt.Errorf("tweet %d not in view", id) }

// LikeAPI is the mutation any view with a visible tweet can perform.
type LikeAPI interface {
	ToggleLike(ctx context.Context, id int64) (model.LikeResult, error)
}

// toggleLike runs the like-unlike call for a locally held tweet, merges
// the partial response and broadcasts the canonical value. The mutating
// view updates its own copy through its bus subscription like everyone
// else.
func toggleLike(ctx context.Context, api LikeAPI, bus *events.Bus, t model.Tweet) error {
	res, err := api.ToggleLike(ctx, t.ID)
	if err != nil {
		return err
	}
	bus.Publish(events.Event{Kind: events.TweetLiked, Tweet: model.ApplyLikeResult(t, res)})
	return nil
}
