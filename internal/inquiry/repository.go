package inquiry

import "context"

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Category Category
	Status   Status
}

// Repository is the persistence contract for inquiries.
// List must return items in insertion order.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Inquiry, error)
	Create(ctx context.Context, i Inquiry) error
}
