package pagination

// Page-number pagination. Nearby and ticket listings want totals up front,
// so offset paging fits better than cursors here.

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any paged query can request.
	MaxLimit = 50
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page that was actually served.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Normalize enforces the default and maximum limits and a 1-based page.
func Normalize(p Params) Params {
	return NormalizeWith(p, DefaultLimit, MaxLimit)
}

// NormalizeWith is Normalize with caller-supplied bounds.
func NormalizeWith(p Params, defaultLimit, maxLimit int) Params {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor builds page metadata for a total row count.
func MetaFor(p Params, total int) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1 && total > 0,
	}
}

// Slice pages an in-memory result set. Out-of-range pages return an empty,
// non-nil slice so responses always render a JSON array.
func Slice[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
