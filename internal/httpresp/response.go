package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	// Skip and Limit echo the window for paged endpoints.
	Skip  int `json:"skip,omitempty"`
	Limit int `json:"limit,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List always encodes data as an array, never null.
func List[T any](c *gin.Context, data []T) {
	Page(c, data, 0, 0)
}

func Page[T any](c *gin.Context, data []T, skip, limit int) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
		Skip:  skip,
		Limit: limit,
	})
}
