package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/apperr"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageParams reads ?page=&limit=, falling back to page 1 and the default limit.
func PageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return page, limit
}

// Offset converts a 1-based page into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// PathID parses a positive integer path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(name, "must be a positive integer")
	}
	return id, nil
}

// QueryID parses an optional positive integer query parameter. Absent means 0.
func QueryID(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(name, "must be a positive integer")
	}
	return id, nil
}

// QueryFloat parses an optional float query parameter.
func QueryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(name, "must be a number")
	}
	return &v, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation(name, "must be true or false")
	}
	return &v, nil
}
