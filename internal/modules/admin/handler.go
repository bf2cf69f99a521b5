package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/response"
	"rentmarket/internal/pkg/utils"
	"rentmarket/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by the admin role.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/stats", h.GetStats)
	admin.GET("/users", list(h.service.Users))
	admin.GET("/items", list(h.service.Items))
	admin.GET("/rentals", list(h.service.Rentals))
	admin.GET("/reviews", list(h.service.ItemReviews))
	admin.GET("/renter-reviews", list(h.service.RenterReviews))
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func list[T any](fetch func(context.Context, repository.Page) ([]T, int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := utils.PageParams(c)
		rows, total, err := fetch(c.Request.Context(), repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Paginated(c, rows, response.NewMeta(total, page, limit))
	}
}
