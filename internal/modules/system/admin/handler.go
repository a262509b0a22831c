package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/modules/content/site"
	"github.com/mx-space/sitecms/internal/pkg/cron"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	sites *site.Service
	cron  *cron.Scheduler
}

func NewHandler(svc *Service, sites *site.Service, scheduler *cron.Scheduler) *Handler {
	return &Handler{svc: svc, sites: sites, cron: scheduler}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/admin", authMW, adminMW)
	g.GET("/users", h.listUsers)
	g.DELETE("/users/:id", h.deleteUser)
	g.GET("/sites", h.listSites)
	g.DELETE("/sites/:id", h.deleteSite)
	g.GET("/jobs", h.listJobs)
	g.POST("/jobs/:name/run", h.runJob)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, users)
}

func (h *Handler) deleteUser(c *gin.Context) {
	err := h.svc.DeleteUser(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	switch {
	case errors.Is(err, ErrCannotDeleteSelf):
		response.BadRequest(c, "Cannot delete yourself")
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, "User not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Message(c, "User deleted successfully")
	}
}

func (h *Handler) listSites(c *gin.Context) {
	sites, err := h.sites.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, sites)
}

func (h *Handler) deleteSite(c *gin.Context) {
	ctx := c.Request.Context()
	s, err := h.sites.GetByID(ctx, c.Param("id"))
	if errors.Is(err, site.ErrSiteNotFound) {
		response.NotFound(c, "Site not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.sites.Delete(ctx, s); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Message(c, "Site deleted successfully")
}

func (h *Handler) listJobs(c *gin.Context) {
	if h.cron == nil {
		response.OK(c, []cron.ListItem{})
		return
	}
	response.OK(c, h.cron.List())
}

func (h *Handler) runJob(c *gin.Context) {
	if h.cron == nil {
		response.NotFound(c, "Job not found")
		return
	}
	name := c.Param("name")
	err := h.cron.Run(c.Request.Context(), name)
	switch {
	case errors.Is(err, cron.ErrJobNotFound):
		response.NotFound(c, "Job not found")
	case errors.Is(err, cron.ErrJobRunning):
		response.Error(c, http.StatusConflict, "Job is already running")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Message(c, "Job "+name+" finished")
	}
}
