package service

// Page is one page of a larger result set.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int
}

func newPage[T any](items []T, currentPage, pageSize, totalCount int) *Page[T] {
	totalPages := 0
	if totalCount > 0 && pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
