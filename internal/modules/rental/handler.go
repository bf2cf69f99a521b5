package rental

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/response"
	"rentmarket/internal/pkg/utils"
	"rentmarket/internal/repository"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	if public != nil {
		public.GET("/items/:id/quote", h.Quote)
	}

	if protected != nil {
		rentals := protected.Group("/rentals")
		rentals.POST("", h.Create)
		rentals.GET("", h.ListMine)
		if ownerOnly != nil {
			rentals.GET("/owner", ownerOnly, h.ListForOwner)
		} else {
			rentals.GET("/owner", h.ListForOwner)
		}
		rentals.GET("/:id", h.Get)
	}
}

// Create handles POST /rentals. The renter is always the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	rental, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rental)
}

func (h *Handler) Quote(c *gin.Context) {
	itemID, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	q, err := h.svc.Quote(c.Request.Context(), itemID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) ListMine(c *gin.Context) {
	page, limit := utils.PageParams(c)

	list, total, err := h.svc.ListMine(c.Request.Context(), c.GetInt64("user_id"), repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list, response.NewMeta(total, page, limit))
}

func (h *Handler) ListForOwner(c *gin.Context) {
	page, limit := utils.PageParams(c)

	list, total, err := h.svc.ListForOwner(c.Request.Context(), c.GetInt64("user_id"), repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list, response.NewMeta(total, page, limit))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	rental, err := h.svc.Get(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rental)
}
