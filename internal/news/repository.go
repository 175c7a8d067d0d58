package news

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("news: not found")
	ErrSlugTaken = errors.New("news: slug already exists")
)

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Category Category
	Status   Status
}

// Repository is the persistence contract for news.
//
// List must return items in insertion order. It may apply the filter itself;
// callers re-apply it, so an unfiltered result is also correct.
type Repository interface {
	List(ctx context.Context, f Filter) ([]News, error)
	GetBySlug(ctx context.Context, slug string) (News, error)
	Create(ctx context.Context, n News) error
	// IncrementViews atomically adds one view and returns the new count.
	IncrementViews(ctx context.Context, id string) (int64, error)
}
