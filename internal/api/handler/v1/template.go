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

type TemplateService interface {
	CreateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error)
	GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.EventTemplate, error)
	UpdateTemplate(ctx context.Context, id string, template domain.EventTemplate) (domain.EventTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
}

type TemplateHandler struct {
	svc  TemplateService
	uSvc UserService
}

func NewTemplateHandler(svc TemplateService, uSvc UserService) *TemplateHandler {
	return &TemplateHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListTemplates godoc
// @Summary      List event templates
// @Tags         templates
// @Produce      json
// @Success      200  {array}   domain.EventTemplate
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /templates [get]
// @Security     BearerAuth
func (h *TemplateHandler) HandleListTemplates(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	templates, err := h.svc.ListTemplates(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTemplates -> h.svc.ListTemplates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, templates)
}

// HandleGetTemplate godoc
// @Summary      Get an event template
// @Tags         templates
// @Produce      json
// @Param        templateID  path      string  true  "Template ID"
// @Success      200  {object}  domain.EventTemplate
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /templates/{templateID} [get]
// @Security     BearerAuth
func (h *TemplateHandler) HandleGetTemplate(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	templateID := ctx.Param("templateID")
	template, err := h.svc.GetTemplate(ctx.Request.Context(), templateID)
	if err != nil {
		h.renderErr(ctx, "v1.HandleGetTemplate -> h.svc.GetTemplate", templateID, err)
		return
	}

	ctx.JSON(http.StatusOK, template)
}

// HandleCreateTemplate godoc
// @Summary      Create an event template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request  body      request.TemplateRequest  true  "request body"
// @Success      201  {object}  domain.EventTemplate
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /templates [post]
// @Security     BearerAuth
func (h *TemplateHandler) HandleCreateTemplate(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	template, err := h.svc.CreateTemplate(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		h.renderErr(ctx, "v1.HandleCreateTemplate -> h.svc.CreateTemplate", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, template)
}

// HandleUpdateTemplate godoc
// @Summary      Replace an event template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        templateID  path      string                   true  "Template ID"
// @Param        request     body      request.TemplateRequest  true  "request body"
// @Success      200  {object}  domain.EventTemplate
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /templates/{templateID} [put]
// @Security     BearerAuth
func (h *TemplateHandler) HandleUpdateTemplate(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	templateID := ctx.Param("templateID")
	template, err := h.svc.UpdateTemplate(ctx.Request.Context(), templateID, req.ToDomain())
	if err != nil {
		h.renderErr(ctx, "v1.HandleUpdateTemplate -> h.svc.UpdateTemplate", templateID, err)
		return
	}

	ctx.JSON(http.StatusOK, template)
}

// HandleDeleteTemplate godoc
// @Summary      Delete an event template
// @Tags         templates
// @Param        templateID  path  string  true  "Template ID"
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /templates/{templateID} [delete]
// @Security     BearerAuth
func (h *TemplateHandler) HandleDeleteTemplate(ctx *gin.Context) {
	if _, respErr := getOfficerFromContext(ctx, h.uSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	templateID := ctx.Param("templateID")
	if err := h.svc.DeleteTemplate(ctx.Request.Context(), templateID); err != nil {
		h.renderErr(ctx, "v1.HandleDeleteTemplate -> h.svc.DeleteTemplate", templateID, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TemplateHandler) renderErr(ctx *gin.Context, op, templateID string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTemplate):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrTemplateNotFound):
		response.RenderErr(ctx, response.ErrNotFound("template", "id", templateID))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
