// Package inquiry handles contact-form submissions and their admin listing.
package inquiry

import (
	"context"
	"strings"
	"time"

	"powerise-api/internal/query"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) List(ctx context.Context, p query.Params) (query.Result[Inquiry], error) {
	items, err := s.repo.List(ctx, Filter{Category: Category(p.Category), Status: Status(p.Status)})
	if err != nil {
		return query.Result[Inquiry]{}, err
	}
	return query.List(items, p), nil
}

// Create stores a submission. New inquiries start as NEW with MEDIUM priority.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Inquiry, error) {
	now := s.clock().UTC()
	i := Inquiry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Company:   req.Company,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Category:  req.Category,
		Status:    StatusNew,
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return Inquiry{}, err
	}
	return i, nil
}
