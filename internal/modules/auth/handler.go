package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/response"
	"rentmarket/internal/pkg/utils"
)

// Handler manages the HTTP side of authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
	v1.GET("/users/:id", h.GetProfile)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	profile, err := h.service.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}
