package discovery

import "marigunting/internal/model"

// DefaultPageSize is the number of businesses shown per discovery page.
const DefaultPageSize = 8

// Page is one window of a ranked list. Number is zero-based.
type Page struct {
	Items      []model.Business
	Number     int
	TotalPages int
	Total      int
}

// HasPrev reports whether a page precedes this one.
func (p Page) HasPrev() bool { return p.Number > 0 }

// HasNext reports whether a page follows this one.
func (p Page) HasNext() bool { return p.Number+1 < p.TotalPages }

// Paginate cuts page number out of ranked. Out-of-range numbers clamp to the
// first or last page; size <= 0 means DefaultPageSize.
func Paginate(ranked []model.Business, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(ranked)
	pages := (total + size - 1) / size
	if pages == 0 {
		return Page{Items: []model.Business{}}
	}
	if number < 0 {
		number = 0
	}
	if number >= pages {
		number = pages - 1
	}

	start := number * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Items:      append([]model.Business(nil), ranked[start:end]...),
		Number:     number,
		TotalPages: pages,
		Total:      total,
	}
}
