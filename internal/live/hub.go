package live

import (
	"context"

	"go.uber.org/zap"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/metrics"
)

const (
	publishBuffer = 64
	clientBuffer  = 16
)

// Client receives the check-ins of one event until it is unsubscribed or
// falls too far behind, at which point Messages is closed.
type Client struct {
	eventID string
	send    chan domain.CheckIn
}

func (c *Client) Messages() <-chan domain.CheckIn {
	return c.send
}

// Hub fans check-ins out to the clients watching each event. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan domain.CheckIn
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan domain.CheckIn, publishBuffer),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
			}
			h.clients = nil
			metrics.LiveSubscribers(0)
			return
		case c := <-h.register:
			if h.clients[c.eventID] == nil {
				h.clients[c.eventID] = make(map[*Client]struct{})
			}
			h.clients[c.eventID][c] = struct{}{}
			metrics.LiveSubscribers(h.count())
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			for c := range h.clients[msg.EventID] {
				select {
				case c.send <- msg:
				default:
					zap.L().Warn("dropping slow live client", zap.String("event_id", c.eventID))
					h.remove(c)
				}
			}
		}
	}
}

// Publish never blocks; when the hub is backed up the notice is dropped.
func (h *Hub) Publish(checkIn domain.CheckIn) {
	select {
	case h.broadcast <- checkIn:
	default:
		zap.L().Warn("live hub is full, dropping check-in", zap.String("event_id", checkIn.EventID))
	}
}

// Subscribe returns nil once the hub has stopped.
func (h *Hub) Subscribe(eventID string) *Client {
	c := &Client{
		eventID: eventID,
		send:    make(chan domain.CheckIn, clientBuffer),
	}

	select {
	case h.register <- c:
		return c
	case <-h.done:
		return nil
	}
}

func (h *Hub) Unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.clients[c.eventID]
	if !ok {
		return
	}
	if _, ok = clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.eventID)
	}
	metrics.LiveSubscribers(h.count())
}

func (h *Hub) count() int {
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}
