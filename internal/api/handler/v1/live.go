package v1

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/live"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

type LiveHub interface {
	Subscribe(eventID string) *live.Client
	Unsubscribe(c *live.Client)
}

type EventReader interface {
	GetEvent(ctx context.Context, id string) (domain.Event, bool, error)
}

type LiveHandler struct {
	hub      LiveHub
	svc      EventReader
	uSvc     UserService
	upgrader websocket.Upgrader
}

func NewLiveHandler(hub LiveHub, svc EventReader, uSvc UserService, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		hub:  hub,
		svc:  svc,
		uSvc: uSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// HandleLive godoc
// @Summary      Stream check-ins of an event
// @Description  Officers only. Upgrades to a websocket and sends one JSON message per check-in. Browsers pass the token as ?token=.
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      101  {object}  domain.CheckIn
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /events/{eventID}/live [get]
// @Security     BearerAuth
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	_, found, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleLive -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !found {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		zap.L().Warn("websocket upgrade failed", zap.String("event_id", eventID), zap.Error(err))
		return
	}

	client := h.hub.Subscribe(eventID)
	if client == nil {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "shutting down"),
			time.Now().Add(liveWriteWait),
		)
		_ = conn.Close()
		return
	}

	go h.readPump(conn, client)
	h.writePump(conn, client)
}

// readPump only handles control frames; it unsubscribes once the peer goes
// away, which in turn ends writePump.
func (h *LiveHandler) readPump(conn *websocket.Conn, client *live.Client) {
	defer h.hub.Unsubscribe(client)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("live connection closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *LiveHandler) writePump(conn *websocket.Conn, client *live.Client) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.hub.Unsubscribe(client)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Unsubscribe(client)
				return
			}
		}
	}
}
