package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"

	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/config"
	"github.com/aisclub/clubevents/internal/domain"
)

const calendarHorizon = 180 * 24 * time.Hour

type CalendarService interface {
	ListUpcoming(ctx context.Context, now time.Time, horizon time.Duration) ([]domain.Event, error)
}

type CalendarHandler struct {
	conf *config.APIConfig
	svc  CalendarService
	now  func() time.Time
}

func NewCalendarHandler(conf *config.APIConfig, svc CalendarService) *CalendarHandler {
	return &CalendarHandler{
		conf: conf,
		svc:  svc,
		now:  time.Now,
	}
}

// HandleCalendar godoc
// @Summary      iCalendar feed of upcoming events
// @Tags         events
// @Produce      text/calendar
// @Success      200  {string}  string
// @Failure      500  {object}  response.Err
// @Router       /calendar.ics [get]
func (h *CalendarHandler) HandleCalendar(ctx *gin.Context) {
	now := h.now()
	events, err := h.svc.ListUpcoming(ctx.Request.Context(), now, calendarHorizon)
	if err != nil {
		err = fmt.Errorf("v1.HandleCalendar -> h.svc.ListUpcoming -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//clubevents//events feed//EN")
	cal.SetXWRCalName("Club events")

	for _, e := range events {
		ev := cal.AddEvent(e.ID + "@clubevents")
		ev.SetDtStampTime(now.UTC())
		ev.SetModifiedAt(e.UpdatedAt.UTC())
		ev.SetStartAt(e.Datetime.UTC())
		ev.SetEndAt(e.EndsAt().UTC())
		ev.SetSummary(e.Title)
		ev.SetLocation(e.Location)
		ev.SetDescription(e.Description)
		ev.SetURL(response.CheckInURL(h.conf.PublicBaseURL, e.ID))
	}

	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
