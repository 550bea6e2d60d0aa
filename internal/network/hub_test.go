package network

import (
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterDeliversPerSession(t *testing.T) {
	b := NewBroadcaster()

	watcher := b.Subscribe("s1")
	stranger := b.Subscribe("s2")

	b.Publish("s1", api.ServerResponse{Type: "UPDATE"})

	select {
	case msg := <-watcher:
		assert.Equal(t, "UPDATE", msg.Type)
	default:
		t.Fatal("subscriber of s1 must receive the message")
	}
	select {
	case <-stranger:
		t.Fatal("subscriber of s2 must not receive s1 traffic")
	default:
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe("s1")
	require.Equal(t, 1, b.SubscriberCount("s1"))

	b.Unsubscribe("s1", ch)
	assert.Zero(t, b.SubscriberCount("s1"))

	_, open := <-ch
	assert.False(t, open)
}

func TestBroadcasterDropsOnFullChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe("s1")

	// Переполняем буфер: лишние сообщения тихо пропадают,
	// Publish при этом не блокируется.
	for i := 0; i < 150; i++ {
		b.Publish("s1", api.ServerResponse{Type: "UPDATE"})
	}
	assert.Equal(t, 100, len(ch))
}

func TestBroadcasterPublishToUnknownSession(t *testing.T) {
	b := NewBroadcaster()
	// Ничего не должно паниковать и блокироваться.
	b.Publish("ghost", api.ServerResponse{Type: "UPDATE"})
	assert.Zero(t, b.SubscriberCount("ghost"))
}
