package service

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination bounds a list query. Zero values fall back to the defaults.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.Limit
}

func (p Pagination) limit() int {
	return p.normalized().Limit
}
