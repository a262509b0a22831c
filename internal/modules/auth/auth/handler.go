package auth

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

// RegisterRoutes mounts /auth. limitMW guards the credential endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, limitMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/register", limitMW, h.register)
	a.POST("/login", limitMW, h.login)
	a.GET("/me", authMW, h.me)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			response.BadRequest(c, "Email already registered")
		case errors.Is(err, ErrDuplicateUsername):
			response.BadRequest(c, "Username already taken")
		case errors.Is(err, ErrAdminSignupDisabled):
			response.Forbidden(c, "Admin registration is disabled")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, result)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	result, err := h.svc.Login(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, u.Public())
}
