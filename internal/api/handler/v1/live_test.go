package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/live"
)

// signallingHub reports each subscription so tests publish only once the
// socket is registered.
type signallingHub struct {
	*live.Hub
	subscribed chan struct{}
}

func (h *signallingHub) Subscribe(eventID string) *live.Client {
	c := h.Hub.Subscribe(eventID)
	h.subscribed <- struct{}{}
	return c
}

func newLiveServer(t *testing.T) (*httptest.Server, *signallingHub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := &signallingHub{Hub: live.NewHub(), subscribed: make(chan struct{}, 1)}
	go hub.Run(ctx)

	svc := &mockEventService{}
	svc.On("GetEvent", mock.Anything, "e1").Return(sampleEvent(), true, nil)
	svc.On("GetEvent", mock.Anything, "nope").Return(domain.Event{}, false, nil)

	h := NewLiveHandler(hub, svc, newUserService(), nil)
	r := newTestRouter()
	r.GET("/events/:eventID/live", h.HandleLive)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, hub
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestHandleLive_StreamsCheckIns(t *testing.T) {
	srv, hub := newLiveServer(t)

	header := http.Header{}
	header.Set("X-Test-User", officer.ID)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/events/e1/live"), header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	select {
	case <-hub.subscribed:
	case <-time.After(time.Second):
		t.Fatal("socket never subscribed")
	}

	hub.Publish(domain.CheckIn{EventID: "other", UserID: "u9"})
	hub.Publish(domain.CheckIn{EventID: "e1", UserID: "u1", PlusOne: true, At: testNow})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got domain.CheckIn
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "e1", got.EventID)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.PlusOne)
	assert.True(t, got.At.Equal(testNow))
}

func TestHandleLive_Rejects(t *testing.T) {
	srv, _ := newLiveServer(t)

	tests := []struct {
		name       string
		path       string
		userID     string
		wantStatus int
	}{
		{name: "anonymous", path: "/events/e1/live", wantStatus: http.StatusUnauthorized},
		{name: "member", path: "/events/e1/live", userID: member.ID, wantStatus: http.StatusForbidden},
		{name: "unknown event", path: "/events/nope/live", userID: officer.ID, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.userID != "" {
				header.Set("X-Test-User", tt.userID)
			}

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.path), header)
			if conn != nil {
				conn.Close()
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
