package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
)

func parsePagination(c *gin.Context) service.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return service.Pagination{Page: page, Limit: limit}
}

func paginatedResponse(count int64, results interface{}) gin.H {
	return gin.H{
		"count":   count,
		"results": results,
	}
}
