package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/pkg/response"
)

// BindJSON decodes the request body into dst and writes the error response on failure.
// A value of the wrong JSON type is reported as a validation error on that field.
func BindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		response.FromError(c, apperr.Validation(te.Field, expected(te.Type)))
		return false
	}

	response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
	return false
}

func expected(t reflect.Type) string {
	if t == nil {
		return "has the wrong type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.String:
		return "must be a string"
	}
	return "has the wrong type"
}
