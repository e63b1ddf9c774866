package web

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastDoesNotBlockSlowSubscribers(t *testing.T) {
	h := newHub()
	ch, cancel := h.subscribe()
	defer cancel()

	h.broadcast()
	h.broadcast()
	require.Len(t, ch, 1)
	<-ch
	require.Len(t, ch, 0)
}

func TestBroadcaster_NotifiesOnlyTheKey(t *testing.T) {
	b := newBroadcaster()
	mine, cancelMine := b.subscribe(userKey("u1"))
	defer cancelMine()
	other, cancelOther := b.subscribe(userKey("u2"))
	defer cancelOther()

	b.notify(userKey("u1"))
	require.Len(t, mine, 1)
	require.Len(t, other, 0)
}

func TestBroadcaster_DropsHubAfterLastCancel(t *testing.T) {
	b := newBroadcaster()
	_, first := b.subscribe(userKey("u1"))
	second, cancelSecond := b.subscribe(userKey("u1"))
	require.Equal(t, 1, b.len())

	first()
	first()
	require.Equal(t, 1, b.len())
	b.notify(userKey("u1"))
	require.Len(t, second, 1)

	cancelSecond()
	require.Equal(t, 0, b.len())

	b.notify(userKey("u1"), userKey("nobody"))
	require.Equal(t, 0, b.len())
}
