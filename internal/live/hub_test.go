package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisclub/clubevents/internal/domain"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)

	return h, cancel
}

func receive(t *testing.T, c *Client) (domain.CheckIn, bool) {
	t.Helper()

	select {
	case msg, ok := <-c.Messages():
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for live message")
		return domain.CheckIn{}, false
	}
}

func TestHub_RoutesByEvent(t *testing.T) {
	h, _ := startHub(t)

	a := h.Subscribe("e1")
	b := h.Subscribe("e2")
	require.NotNil(t, a)
	require.NotNil(t, b)

	h.Publish(domain.CheckIn{EventID: "e1", UserID: "u1", PlusOne: true})
	h.Publish(domain.CheckIn{EventID: "e2", UserID: "u2"})

	msg, ok := receive(t, a)
	require.True(t, ok)
	assert.Equal(t, "u1", msg.UserID)
	assert.True(t, msg.PlusOne)

	msg, ok = receive(t, b)
	require.True(t, ok)
	assert.Equal(t, "u2", msg.UserID)
}

func TestHub_Unsubscribe(t *testing.T) {
	h, _ := startHub(t)

	c := h.Subscribe("e1")
	h.Unsubscribe(c)

	_, ok := receive(t, c)
	assert.False(t, ok)

	h.Unsubscribe(c)
}

func TestHub_DropsSlowClient(t *testing.T) {
	h, _ := startHub(t)

	slow := h.Subscribe("e1")
	for i := 0; i <= clientBuffer; i++ {
		h.Publish(domain.CheckIn{EventID: "e1"})
	}
	assert.Eventually(t, func() bool { return len(h.broadcast) == 0 }, time.Second, time.Millisecond)
	// Run only accepts a registration once it is done with the last broadcast.
	h.Subscribe("e2")

	for i := 0; i < clientBuffer; i++ {
		_, ok := receive(t, slow)
		require.True(t, ok)
	}
	_, ok := receive(t, slow)
	assert.False(t, ok)
}

func TestHub_Stop(t *testing.T) {
	h, cancel := startHub(t)

	c := h.Subscribe("e1")
	cancel()

	_, ok := receive(t, c)
	assert.False(t, ok)

	<-h.done
	assert.Nil(t, h.Subscribe("e1"))
	h.Publish(domain.CheckIn{EventID: "e1"})
}
