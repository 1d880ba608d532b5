package events

import (
	"sync"

	"github.com/google/uuid"

	"chirp/internal/metrics"
	"chirp/internal/model"
)

// Kind tags a broadcast with the mutation that produced it. The set is
// closed: subscribers switch over it exhaustively instead of inspecting
// payload shape.
type Kind int

const (
	TweetCreated Kind = iota
	TweetUpdated
	TweetLiked
	CommentAdded
)

func (k Kind) String() string {
	switch k {
	case TweetCreated:
		return "tweet_created"
	case TweetUpdated:
		return "tweet_updated"
	case TweetLiked:
		return "tweet_liked"
	case CommentAdded:
		return "comment_added"
	}
	return "unknown"
}

// Event carries the canonical tweet value after a mutation. For CommentAdded
// the tweet already includes the new comment and incremented count.
type Event struct {
	Kind  Kind
	Tweet model.Tweet
}

// Subscription is a registered handler. Keep the value returned by
// Subscribe to unsubscribe later.
type Subscription struct {
	id    uuid.UUID
	kinds map[Kind]bool
	fn    func(Event)
}

// Bus is an in-process broadcast channel. Publish delivers synchronously,
// in subscription order, to every subscriber registered for the event's
// kind. Publishing never fails and has no error channel.
type Bus struct {
	mu   sync.Mutex
	subs []*Subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for the given kinds. With no kinds, fn receives
// every event.
func (b *Bus) Subscribe(fn func(Event), kinds ...Kind) *Subscription {
	s := &Subscription{id: uuid.New(), fn: fn}
	if len(kinds) > 0 {
		s.kinds = make(map[Kind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return s
}

// Unsubscribe removes a subscription. Safe to call twice.
func (b *Bus) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	b.mu.Lock()
	for i, cur := range b.subs {
		if cur.id == s.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}

// Publish delivers ev to all matching subscribers before returning.
// Handlers run outside the bus lock so a handler may publish or subscribe
// without deadlocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kinds == nil || s.kinds[ev.Kind] {
			targets = append(targets, s)
		}
	}
	b.mu.Unlock()
	metrics.IncEventPublished(ev.Kind.String())
	for _, s := range targets {
		s.fn(ev)
	}
}
