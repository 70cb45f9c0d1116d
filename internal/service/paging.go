// Package service holds types shared by the domain services.
package service

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// Page clamps paging input and returns the offset to use.
func Page(page, perPage int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	return page, perPage, (page - 1) * perPage
}

func NewPaginatedResult[T any](data []T, total int64, page, perPage int) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      int(total),
		Page:       page,
		PerPage:    perPage,
		TotalPages: (int(total) + perPage - 1) / perPage,
	}
}
