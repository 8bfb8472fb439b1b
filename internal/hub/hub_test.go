package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-admin/internal/domain"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func register(t *testing.T, h *Hub, remote string) *Client {
	t.Helper()
	c := NewClient(h, nil, remote)
	require.True(t, h.Register(c))
	return c
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestHub_InvalidateBroadcastsToAllClients(t *testing.T) {
	h, _ := startHub(t)
	a := register(t, h, "a")
	b := register(t, h, "b")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, h.Invalidate(context.Background(), domain.NewChangeEvent(domain.PostPublished, 7)))

	for _, c := range []*Client{a, b} {
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(receive(t, c), &msg))
		assert.Equal(t, "revalidate", msg["type"])
		assert.Equal(t, "published", msg["kind"])
		assert.Equal(t, float64(7), msg["postId"])
		assert.NotEmpty(t, msg["at"])
	}
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	h, _ := startHub(t)
	c := register(t, h, "a")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.messageChan <- hubMessage{Type: msgUnregister, Client: c}
	h.messageChan <- hubMessage{Type: msgUnregister, Client: c}

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_ShutdownDisconnectsClients(t *testing.T) {
	h, cancel := startHub(t)
	c := register(t, h, "a")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client not disconnected on shutdown")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_SlowClientDoesNotBlockBroadcast(t *testing.T) {
	h, _ := startHub(t)
	slow := register(t, h, "slow")
	fast := register(t, h, "fast")
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("filler")
	}
	require.NoError(t, h.Invalidate(context.Background(), domain.NewChangeEvent(domain.PostDeleted, 1)))

	assert.Contains(t, string(receive(t, fast)), `"deleted"`)
}
