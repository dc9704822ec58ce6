package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPaginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	return page, pageSize
}

type PageMeta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalPage   int `json:"total_page"`
}

func NewPageMeta(total, page, pageSize int) PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PageMeta{
		Total:       total,
		CurrentPage: page,
		PerPage:     pageSize,
		TotalPage:   totalPages,
	}
}

// Paginate returns one page of items; pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageMeta) {
	meta := NewPageMeta(len(items), page, pageSize)
	start := (page - 1) * pageSize
	if start < 0 || start >= len(items) {
		return []T{}, meta
	}
	end := min(start+pageSize, len(items))
	return items[start:end], meta
}
