package calendar

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Page is one page of items.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	Total    int  `json:"total"`
}

// PageWindow normalizes a 1-based page request into limit and offset.
// A zero pageSize with a zero page means "everything" and yields limit 0.
func PageWindow(page, pageSize int) (p, size, limit, offset int) {
	if page <= 0 && pageSize <= 0 {
		return 1, 0, 0, 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, pageSize, (page - 1) * pageSize
}

// NewPage wraps one window of results together with the total match count.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	if pageSize <= 0 {
		pageSize = len(items)
	}
	if page <= 0 {
		page = 1
	}
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  int64((page-1)*pageSize+len(items)) < total,
		HasPrev:  page > 1,
		Total:    int(total),
	}
}
