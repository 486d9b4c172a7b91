package response

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse converts each domain item with conv and wraps the result.
// An empty input still produces "items": [] rather than null.
func NewPageResponse[S, T any](src []S, conv func(S) T, page, pageSize, total int) PageResponse[T] {
	items := make([]T, 0, len(src))
	for _, s := range src {
		items = append(items, conv(s))
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
