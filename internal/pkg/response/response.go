package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/apperr"
)

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewMeta(total int64, page, limit int) Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Paginated(c *gin.Context, data interface{}, meta Meta) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError maps the apperr taxonomy onto HTTP responses.
func FromError(c *gin.Context, err error) {
	var v *apperr.ValidationError
	var nf *apperr.NotFoundError

	switch {
	case errors.As(err, &v):
		details := gin.H{"field": v.Field}
		if len(v.Fields) > 0 {
			details["fields"] = v.Fields
		}
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", v.Error(), details)
	case errors.As(err, &nf):
		Error(c, http.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusConflict, "CONFLICT", err.Error())
	default:
		_ = c.Error(err)
		log.Printf("internal_error path=%s user_id=%d error=%q", c.Request.URL.Path, c.GetInt64("user_id"), err.Error())
		Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
