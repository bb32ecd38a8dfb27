package push

import (
	"testing"

	"github.com/dsjohal14/sentify/internal/scope/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe(1)
	b := hub.Subscribe(1)
	other := hub.Subscribe(2)
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)
	defer hub.Unsubscribe(other)

	n := db.Notification{ID: 7, UserID: 1, Message: "New articles available for AAPL!"}
	assert.Equal(t, 2, hub.Publish(1, n))

	assert.Equal(t, n, <-a.C)
	assert.Equal(t, n, <-b.C)
	assert.Empty(t, other.C)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Publish(3, db.Notification{ID: 1}))
}

func TestPublishDropsWhenFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	defer hub.Unsubscribe(sub)

	for i := 0; i < subscriptionBuffer; i++ {
		require.Equal(t, 1, hub.Publish(1, db.Notification{ID: int64(i)}))
	}
	assert.Equal(t, 0, hub.Publish(1, db.Notification{ID: 99}))
	assert.Len(t, sub.C, subscriptionBuffer)
}

func TestUnsubscribe(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(4)
	assert.Equal(t, 1, hub.Subscribers(4))

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Subscribers(4))

	_, open := <-sub.C
	assert.False(t, open, "channel should be closed")
	assert.Equal(t, 0, hub.Publish(4, db.Notification{ID: 1}))
}
