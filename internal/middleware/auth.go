package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/response"
)

type itemGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
}

// OwnershipChecker provides middleware to verify resource ownership
type OwnershipChecker struct {
	items itemGetter
}

func NewOwnershipChecker(items itemGetter) *OwnershipChecker {
	return &OwnershipChecker{items: items}
}

// CheckItemOwnership verifies the user owns the item in URL param "id".
func (oc *OwnershipChecker) CheckItemOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || itemID <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID")
			c.Abort()
			return
		}

		item, err := oc.items.GetByID(c.Request.Context(), itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusNotFound, "NOT_FOUND", "item not found")
			} else {
				_ = c.Error(err)
				response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
			}
			c.Abort()
			return
		}

		if item.OwnerID != userID {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this item")
			c.Abort()
			return
		}

		c.Next()
	}
}
