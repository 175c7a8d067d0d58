package query

// Item is anything a list can filter.
type Item interface {
	ItemCategory() string
	ItemStatus() string
}

// Result is the page envelope. Total counts matches before slicing.
type Result[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Matches reports whether it passes every filter set in p.
func Matches(it Item, p Params) bool {
	if p.Category != "" && it.ItemCategory() != p.Category {
		return false
	}
	if p.Status != "" && it.ItemStatus() != p.Status {
		return false
	}
	return true
}

// List filters items by p, then slices [offset, offset+limit). Order is
// preserved and items is not modified.
func List[T Item](items []T, p Params) Result[T] {
	matched := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(it, p) {
			matched = append(matched, it)
		}
	}
	return Page(matched, p.Limit, p.Offset)
}

// Page slices an already filtered, ordered collection.
func Page[T any](matched []T, limit, offset int) Result[T] {
	total := len(matched)
	start := min(offset, total)
	end := min(start+limit, total)

	page := make([]T, end-start)
	copy(page, matched[start:end])

	return Result[T]{
		Items:   page,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset < total-limit, // offset+limit < total without overflow
	}
}
