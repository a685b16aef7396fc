package usecase

// Pagination is the meta block of every paged list response.
type Pagination struct {
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
}

// pageBounds validates page and per_page and returns the row offset.
func pageBounds(page, perPage, defaultPerPage int) (int, int, int, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if page < 1 {
		return 0, 0, 0, invalid("page", "page must be >= 1")
	}
	if perPage < 1 || perPage > 100 {
		return 0, 0, 0, invalid("per_page", "per_page must be between 1 and 100")
	}
	return page, perPage, (page - 1) * perPage, nil
}

func newPagination(page, perPage int, total int64) Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{TotalPages: pages, Page: page, PerPage: perPage, TotalItems: total}
}
