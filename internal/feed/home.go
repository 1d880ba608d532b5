package feed

import (
	"context"
	"fmt"
	"sync"

	"chirp/internal/events"
	"chirp/internal/model"
)

// HomeAPI is the slice of the API client the home feed needs.
type HomeAPI interface {
	FetchHome(ctx context.Context, page int) (model.HomePage, error)
	LikeAPI
}

// Home is the main feed view: one page of recent tweets plus the two
// fixed side lists. Pagination controls derive from the server-reported
// total; the view never requests a page outside 1..TotalPages.
type Home struct {
	api       HomeAPI
	bus       *events.Bus
	sub       *events.Subscription
	sideLimit int

	mu            sync.Mutex
	recent        []model.Tweet
	mostLiked     []model.Tweet
	mostCommented []model.Tweet
	page          int
	totalPages    int
}

func NewHome(api HomeAPI, bus *events.Bus, sideLimit int) *Home {
	if sideLimit <= 0 {
		sideLimit = 3
	}
	h := &Home{api: api, bus: bus, sideLimit: sideLimit}
	h.sub = bus.Subscribe(h.handle,
		events.TweetCreated, events.TweetUpdated, events.TweetLiked, events.CommentAdded)
	return h
}

// Close unsubscribes from the bus. The view stops reconciling after this.
func (h *Home) Close() { h.bus.Unsubscribe(h.sub) }

// LoadPage fetches page n. Out-of-range pages are a caller error once the
// total is known; controls built from Pages() cannot produce one.
func (h *Home) LoadPage(ctx context.Context, n int) error {
	h.mu.Lock()
	total := h.totalPages
	h.mu.Unlock()
	if n < 1 || (total > 0 && n > total) {
		return fmt.Errorf("page %d out of range 1..%d", n, total)
	}
	page, err := h.api.FetchHome(ctx, n)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.recent = page.RecentTweets
	h.mostLiked = page.MostLikedTweets
	h.mostCommented = page.MostCommentedTweets
	h.totalPages = page.TotalPages
	h.page = n
	h.mu.Unlock()
	return nil
}

// ToggleLike likes or unlikes a tweet currently held by this view.
func (h *Home) ToggleLike(ctx context.Context, id int64) error {
	t, ok := h.find(id)
	if !ok {
		return errNotInView(id)
	}
	return toggleLike(ctx, h.api, h.bus, t)
}

func (h *Home) find(id int64) (model.Tweet, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, list := range [][]model.Tweet{h.recent, h.mostLiked, h.mostCommented} {
		for _, t := range list {
			if t.ID == id {
				return t, true
			}
		}
	}
	return model.Tweet{}, false
}

// handle reconciles a broadcast. Created prepends to the recent list only;
// every other kind replaces by id wherever the tweet is held, then the
// metric-ordered side lists re-sort.
func (h *Home) handle(ev events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch ev.Kind {
	case events.TweetCreated:
		h.recent = append([]model.Tweet{ev.Tweet}, h.recent...)
	case events.TweetUpdated, events.TweetLiked, events.CommentAdded:
		h.recent = model.ReplaceByID(h.recent, ev.Tweet)
		h.mostLiked = model.ReplaceByID(h.mostLiked, ev.Tweet)
		h.mostCommented = model.ReplaceByID(h.mostCommented, ev.Tweet)
		model.SortByLikes(h.mostLiked)
		model.SortByComments(h.mostCommented)
	}
}

// Recent returns the current page of tweets.
func (h *Home) Recent() []model.Tweet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]model.Tweet(nil), h.recent...)
}

// SideLiked returns the capped most-liked side list.
func (h *Home) SideLiked() []model.Tweet { return h.side(&h.mostLiked) }

// SideCommented returns the capped most-commented side list.
func (h *Home) SideCommented() []model.Tweet { return h.side(&h.mostCommented) }

func (h *Home) side(list *[]model.Tweet) []model.Tweet {
	h.mu.Lock()
	defer h.mu.Unlock()
	l := *list
	if len(l) > h.sideLimit {
		l = l[:h.sideLimit]
	}
	return append([]model.Tweet(nil), l...)
}

// HasMoreLiked reports whether the most-liked list extends past the cap.
func (h *Home) HasMoreLiked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mostLiked) > h.sideLimit
}

// HasMoreCommented reports whether the most-commented list extends past
// the cap.
func (h *Home) HasMoreCommented() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mostCommented) > h.sideLimit
}

// SeeMoreLiked returns the full most-liked set re-sorted for the modal.
func (h *Home) SeeMoreLiked() []model.Tweet {
	h.mu.Lock()
	out := append([]model.Tweet(nil), h.mostLiked...)
	h.mu.Unlock()
	model.SortByLikes(out)
	return out
}

// SeeMoreCommented returns the full most-commented set re-sorted for the
// modal.
func (h *Home) SeeMoreCommented() []model.Tweet {
	h.mu.Lock()
	out := append([]model.Tweet(nil), h.mostCommented...)
	h.mu.Unlock()
	model.SortByComments(out)
	return out
}

// Page returns the currently loaded page number.
func (h *Home) Page() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page
}

// TotalPages returns the server-reported page count.
func (h *Home) TotalPages() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalPages
}

// Pages lists every valid page number, for rendering pagination controls.
func (h *Home) Pages() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int, h.totalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// HasPrev reports whether a previous page exists.
func (h *Home) HasPrev() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page > 1
}

// HasNext reports whether a next page exists.
func (h *Home) HasNext() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.page < h.totalPages
}
