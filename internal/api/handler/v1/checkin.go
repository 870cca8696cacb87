package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aisclub/clubevents/internal/api/handler/v1/request"
	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/service"
)

type CheckInService interface {
	GetEvent(ctx context.Context, id string) (domain.Event, bool, error)
	RegisterAttendance(ctx context.Context, eventID, userID string, hasPlusOne bool) error
}

type CheckInHandler struct {
	svc  CheckInService
	uSvc UserService
}

func NewCheckInHandler(svc CheckInService, uSvc UserService) *CheckInHandler {
	return &CheckInHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetCheckIn godoc
// @Summary      Event summary behind a check-in link
// @Description  Public. Never includes who attended.
// @Tags         checkin
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  response.CheckInEvent
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /checkin/{eventID} [get]
func (h *CheckInHandler) HandleGetCheckIn(ctx *gin.Context) {
	eventID := ctx.Param("eventID")
	event, found, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCheckIn -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !found {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCheckInEvent(event))
}

// HandleCheckIn godoc
// @Summary      Check in to an event
// @Description  Records the signed-in member as an attendee. plus_one adds one guest to the tally on every call.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                  true   "Event ID"
// @Param        request  body      request.CheckInRequest  false  "request body"
// @Success      200  {object}  response.CheckIn
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /checkin/{eventID} [post]
// @Security     BearerAuth
func (h *CheckInHandler) HandleCheckIn(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CheckInRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	eventID := ctx.Param("eventID")
	event, found, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckIn -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !found {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		return
	}

	// The write goes through even if the client hangs up mid-request.
	err = h.svc.RegisterAttendance(context.WithoutCancel(ctx.Request.Context()), eventID, user.ID, req.PlusOne)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		case errors.Is(err, service.ErrInvalidAttendance):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCheckIn -> h.svc.RegisterAttendance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.CheckIn{
		EventID:         eventID,
		PlusOne:         req.PlusOne,
		RedirectURL:     event.RedirectURL(),
		RedirectAfterMs: response.RedirectAfterMs,
	})
}
