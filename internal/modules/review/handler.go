package review

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

// RegisterRoutes mounts the review endpoints. ownerOnly guards the renter-review routes.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, ownerOnly gin.HandlerFunc) {
	if public != nil {
		public.GET("/items/:id/reviews", h.ListForItem)
		public.GET("/users/:id/renter-reviews", h.ListForRenter)
	}

	if protected != nil {
		protected.POST("/reviews", h.SubmitItemReview)
		protected.GET("/reviews", h.GetItemReview)

		owner := protected.Group("/reviews/renter")
		if ownerOnly != nil {
			owner.Use(ownerOnly)
		}
		owner.POST("", h.SubmitRenterReview)
		owner.GET("", h.GetRenterReview)
	}
}

// SubmitItemReview handles POST /reviews. 201 on insert, 200 on update.
func (h *Handler) SubmitItemReview(c *gin.Context) {
	var req SubmitItemReviewRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.SubmitItemReview(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, statusFor(res.Created), res)
}

// SubmitRenterReview handles POST /reviews/renter.
func (h *Handler) SubmitRenterReview(c *gin.Context) {
	var req SubmitRenterReviewRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.svc.SubmitRenterReview(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, statusFor(res.Created), res)
}

func (h *Handler) GetItemReview(c *gin.Context) {
	rentalID, err := utils.QueryID(c, "rentalId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	itemID, err := utils.QueryID(c, "itemId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	renterID, err := utils.QueryID(c, "renterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	userID := c.GetInt64("user_id")
	if renterID > 0 && renterID != userID {
		response.FromError(c, ErrNotRenter)
		return
	}

	rv, err := h.svc.GetItemReview(c.Request.Context(), userID, rentalID, itemID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) GetRenterReview(c *gin.Context) {
	rentalID, err := utils.QueryID(c, "rentalId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	renterID, err := utils.QueryID(c, "renterId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	rv, err := h.svc.GetRenterReview(c.Request.Context(), c.GetInt64("user_id"), rentalID, renterID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rv)
}

func (h *Handler) ListForItem(c *gin.Context) {
	itemID, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, limit := utils.PageParams(c)

	list, total, err := h.svc.ListItemReviews(c.Request.Context(), itemID, repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list, response.NewMeta(total, page, limit))
}

func (h *Handler) ListForRenter(c *gin.Context) {
	renterID, err := utils.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	page, limit := utils.PageParams(c)

	list, total, err := h.svc.ListRenterReviews(c.Request.Context(), renterID, repository.Page{Limit: limit, Offset: utils.Offset(page, limit)})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paginated(c, list, response.NewMeta(total, page, limit))
}

func statusFor(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
