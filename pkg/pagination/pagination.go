package pagination

const (
	// DefaultPageSize is the customer-facing catalog page size.
	DefaultPageSize = 6
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Page describes one zero-based page over an unfiltered total.
type Page struct {
	Index int
	Size  int
	Total int64
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// New builds a page, clamping negative indexes to the first page.
func New(index, size int, total int64) Page {
	if index < 0 {
		index = 0
	}
	if total < 0 {
		total = 0
	}
	return Page{Index: index, Size: NormalizeSize(size), Total: total}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return p.Index * p.Size
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Index > 0
}

// HasNext reports whether rows remain past this page.
func (p Page) HasNext() bool {
	return int64(p.Index+1)*int64(p.Size) < p.Total
}

// Count is the number of pages needed for Total rows, at least one.
func (p Page) Count() int {
	if p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
