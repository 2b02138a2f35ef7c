package models

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is the normalised page/limit pair of a list query.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of documents preceding the page.
func (p PageRequest) Skip() int64 {
	n := p.Normalize()
	return int64((n.Page - 1) * n.Limit)
}

// NewPagination builds page metadata for total matching items.
func NewPagination(req PageRequest, total int64) *Pagination {
	req = req.Normalize()
	pages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &Pagination{
		CurrentPage: req.Page,
		TotalPages:  pages,
		TotalItems:  total,
		Limit:       req.Limit,
		HasNext:     req.Page < pages,
		HasPrev:     req.Page > 1,
	}
}
