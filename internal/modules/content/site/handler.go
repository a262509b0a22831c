package site

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/sites")
	g.GET("", h.list)
	g.GET("/:slug", h.getBySlug)
	g.POST("", authMW, h.create)
	g.PUT("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	sites, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, sites)
}

func (h *Handler) getBySlug(c *gin.Context) {
	site, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, site)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSiteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	site, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, site)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSiteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	site, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !middleware.CanModify(c, site.OwnerID) {
		response.Forbidden(c, "Not authorized to update this site")
		return
	}
	updated, err := h.svc.Update(ctx, site, &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, updated)
}

func (h *Handler) delete(c *gin.Context) {
	ctx := c.Request.Context()
	site, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !middleware.CanModify(c, site.OwnerID) {
		response.Forbidden(c, "Not authorized to delete this site")
		return
	}
	if err := h.svc.Delete(ctx, site); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Message(c, "Site deleted")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSiteNotFound):
		response.NotFound(c, "Site not found")
	case errors.Is(err, ErrSlugTaken):
		response.BadRequest(c, "Slug already exists")
	case errors.Is(err, ErrInvalidSlug):
		response.BadRequest(c, ErrInvalidSlug.Error())
	case errors.Is(err, ErrEmptyName):
		response.BadRequest(c, "Name is required")
	default:
		response.InternalError(c, err)
	}
}
