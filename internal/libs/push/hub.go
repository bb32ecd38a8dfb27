// Package push fans stored notifications out to each user's live connections.
package push

import (
	"sync"

	"github.com/dsjohal14/sentify/internal/scope/db"
)

const subscriptionBuffer = 16

// Subscription receives notifications published for one user
type Subscription struct {
	UserID int64
	C      <-chan db.Notification
	ch     chan db.Notification
}

// Hub tracks live subscriptions per user. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[*Subscription]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[*Subscription]struct{})}
}

// Subscribe registers a new subscription for userID
func (h *Hub) Subscribe(userID int64) *Subscription {
	ch := make(chan db.Notification, subscriptionBuffer)
	sub := &Subscription{UserID: userID, C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.UserID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.ch)
	if len(set) == 0 {
		delete(h.subs, sub.UserID)
	}
}

// Publish delivers n to every subscription of userID and returns how many got it.
// A subscription whose buffer is full misses n; the inbox still holds it.
func (h *Hub) Publish(userID int64, n db.Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for sub := range h.subs[userID] {
		select {
		case sub.ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions for userID
func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
