package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the comment routes. Deletion is admin-only and
// limitMW throttles anonymous posting.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW, limitMW gin.HandlerFunc) {
	g := rg.Group("/comments")
	g.GET("/page/:pageId", h.listByPage)
	g.GET("/:id", h.get)
	g.POST("", limitMW, h.create)
	g.DELETE("/:id", authMW, adminMW, h.delete)
}

func (h *Handler) listByPage(c *gin.Context) {
	comments, err := h.svc.ListByPage(c.Request.Context(), c.Param("pageId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, comments)
}

func (h *Handler) get(c *gin.Context) {
	cm, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, cm)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, cm)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, "Comment deleted")
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCommentNotFound):
		response.NotFound(c, "Comment not found")
	case errors.Is(err, ErrPageNotFound):
		response.NotFound(c, "Page not found")
	case errors.Is(err, ErrEmptyComment):
		response.BadRequest(c, ErrEmptyComment.Error())
	default:
		response.InternalError(c, err)
	}
}
