package item

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

// RegisterRoutes mounts item routes. ownerOnly guards listing management and
// checkOwnership verifies the :id item belongs to the caller.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, ownerOnly, checkOwnership gin.HandlerFunc) {
	if public != nil {
		public.GET("/items", h.List)
		public.GET("/items/:id", h.Get)
		public.GET("/recommendations", h.Recommend)
	}

	if protected != nil {
		owner := protected.Group("")
		if ownerOnly != nil {
			owner.Use(ownerOnly)
		}
		owner.POST("/items", h.Create)
		owner.GET("/owner/items", h.ListMine)

		mine := owner.Group("/items/:id")
		if checkOwnership != nil {
			mine.Use(checkOwnership)
		}
		mine.PUT("", h.Update)
		mine.DELETE("", h.Delete)
	}
}

// List handles GET /items. With ?slug= it returns that single item instead.
func (h *Handler) List(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		item, err := h.svc.GetBySlug(c.Request.Context(), slug)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, item)
		return
	}

	minPrice, err := utils.QueryFloat(c, "minPrice")
	if err != nil {
		response.FromError(c, err)
		return
	}
	maxPrice, err := utils.QueryFloat(c, "maxPrice")
	if err != nil {
		response.FromError(c, err)
		return
	}
	available, err := utils.QueryBool(c, "available")
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, limit := utils.PageParams(c)

	items, total, err := h.svc.List(c.Request.Context(), repository.ItemFilters{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Available: available,
		Page:      repository.Page{Limit: limit, Offset: utils.Offset(page, limit)},
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, response.NewMeta(total, page, limit))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req UpdateItemRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *Handler) ListMine(c *gin.Context) {
	page, limit := utils.PageParams(c)
	items, total, err := h.svc.ListByOwner(c.Request.Context(), c.GetInt64("user_id"), repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, items, response.NewMeta(total, page, limit))
}

func (h *Handler) Recommend(c *gin.Context) {
	rec, err := h.svc.Recommend(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}
