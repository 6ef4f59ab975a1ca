package repository

// Page bounds shared by the admin contact list and the ops tool.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps the skip offset far from int overflow.
	MaxPage = 100_000
)

// PageRequest is 1-based. Zero values select the defaults.
type PageRequest struct {
	Page     int
	PageSize int
}

// Clamp returns the request with page in [1, MaxPage] and page size in
// [1, MaxPageSize].
func (p PageRequest) Clamp() PageRequest {
	out := PageRequest{Page: min(max(p.Page, DefaultPage), MaxPage), PageSize: p.PageSize}
	switch {
	case out.PageSize < 1:
		out.PageSize = DefaultPageSize
	case out.PageSize > MaxPageSize:
		out.PageSize = MaxPageSize
	}
	return out
}

func (p PageRequest) offset() int { return (p.Page - 1) * p.PageSize }

// PageResult is one page of a newest-first listing.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func newPageResult[T any](req PageRequest, items []T, total int64) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	res := PageResult[T]{Items: items, Page: req.Page, PageSize: req.PageSize, Total: total}
	if total > 0 && req.PageSize > 0 {
		size := int64(req.PageSize)
		res.TotalPages = int((total + size - 1) / size)
	}
	return res
}
