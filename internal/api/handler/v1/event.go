package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aisclub/clubevents/internal/api/handler/v1/request"
	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/config"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/service"
)

const (
	maxPhotoBytes   = 10 << 20
	maxUploadBytes  = 8 * maxPhotoBytes
	photosFormField = "photos"
)

var errPhotoTooLarge = errors.New("photo exceeds 10 MiB")

type EventService interface {
	GetEvent(ctx context.Context, id string) (domain.Event, bool, error)
	ListForViewer(ctx context.Context, viewer domain.User, category string, now time.Time) (domain.Partitioned, error)
	CreateEvent(ctx context.Context, event domain.Event, templateID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	AddPhotos(ctx context.Context, id string, files []domain.PhotoFile) (domain.Event, error)
	RemovePhoto(ctx context.Context, id, url string) (domain.Event, error)
}

type EventHandler struct {
	conf *config.APIConfig
	svc  EventService
	uSvc UserService
	now  func() time.Time
}

func NewEventHandler(conf *config.APIConfig, svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		conf: conf,
		svc:  svc,
		uSvc: uSvc,
		now:  time.Now,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Upcoming events for everyone, signed in or not. Past events only for officers or members who attended them.
// @Tags         events
// @Produce      json
// @Param        category  query     string  false  "All, Discover, Connect, Socialize, Learn or Serve"
// @Success      200  {object}  response.EventList
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	user, respErr := getViewerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var query request.ListEventsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	p, err := h.svc.ListForViewer(ctx.Request.Context(), user, query.Category, h.now())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListForViewer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventList{
		Category: query.Category,
		Upcoming: response.NewEvents(p.Upcoming, user, h.conf.PublicBaseURL),
		Past:     response.NewEvents(p.Past, user, h.conf.PublicBaseURL),
	})
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  response.Event
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	event, found, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	if !found {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event, user, h.conf.PublicBaseURL))
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Officers only. When template_id is set, the template fills every field the request leaves empty.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201  {object}  response.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getOfficerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), req.ToDomain(), req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrTemplateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("template", "id", req.TemplateID))
		default:
			err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.NewEvent(event, user, h.conf.PublicBaseURL))
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Officers only. Only the fields present in the body change; attendance is never touched.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        request  body      request.UpdateEventRequest  true  "request body"
// @Success      200  {object}  response.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	user, respErr := getOfficerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID := ctx.Param("eventID")
	event, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, req.ToPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		default:
			err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event, user, h.conf.PublicBaseURL))
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Officers only. Removes the event, its attendance and its photos.
// @Tags         events
// @Param        eventID  path  string  true  "Event ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUploadPhotos godoc
// @Summary      Upload event photos
// @Description  Officers only. Uploads every file of the photos field in parallel; any failure fails the batch. The first photo of the event becomes its cover.
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Param        photos   formData  file    true  "photos"
// @Success      200  {object}  response.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      504  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/photos [post]
// @Security     BearerAuth
func (h *EventHandler) HandleUploadPhotos(ctx *gin.Context) {
	user, respErr := getOfficerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadBytes)
	files, err := readPhotos(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID := ctx.Param("eventID")
	// Uploads are not abandoned when the client disconnects.
	event, err := h.svc.AddPhotos(context.WithoutCancel(ctx.Request.Context()), eventID, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		case errors.Is(err, service.ErrNoPhotos), errors.Is(err, service.ErrInvalidPhotoUpload):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUploadTimeout):
			response.RenderErr(ctx, response.ErrGatewayTimeout(err))
		default:
			err = fmt.Errorf("v1.HandleUploadPhotos -> h.svc.AddPhotos -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event, user, h.conf.PublicBaseURL))
}

// HandleDeletePhoto godoc
// @Summary      Delete an event photo
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                      true  "Event ID"
// @Param        request  body      request.DeletePhotoRequest  true  "request body"
// @Success      200  {object}  response.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/photos [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeletePhoto(ctx *gin.Context) {
	user, respErr := getOfficerFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DeletePhotoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID := ctx.Param("eventID")
	event, err := h.svc.RemovePhoto(ctx.Request.Context(), eventID, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		case errors.Is(err, service.ErrPhotoNotFound):
			response.RenderErr(ctx, response.ErrNotFound("photo", "url", req.URL))
		default:
			err = fmt.Errorf("v1.HandleDeletePhoto -> h.svc.RemovePhoto -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewEvent(event, user, h.conf.PublicBaseURL))
}

func readPhotos(ctx *gin.Context) ([]domain.PhotoFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("ctx.MultipartForm -> %w", err)
	}

	headers := form.File[photosFormField]
	files := make([]domain.PhotoFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxPhotoBytes {
			return nil, errPhotoTooLarge
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("fh.Open -> %w", err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("io.ReadAll -> %w", err)
		}

		files = append(files, domain.PhotoFile{Name: fh.Filename, Data: data})
	}

	return files, nil
}
