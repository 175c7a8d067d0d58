// Package news serves company news articles: public listing and lookup of
// published items, and admin listing and creation.
package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/query"
	"powerise-api/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	views ViewPolicy
	clock func() time.Time
}

func NewService(repo Repository, views ViewPolicy) *Service {
	if views == nil {
		views = CountEveryRead{}
	}
	return &Service{repo: repo, views: views, clock: time.Now}
}

// ListPublished lists published articles only. A status in p is ignored.
func (s *Service) ListPublished(ctx context.Context, p query.Params) (query.Result[News], error) {
	p.Status = string(StatusPublished)
	return s.list(ctx, p)
}

// ListAll lists articles in every status, for admins.
func (s *Service) ListAll(ctx context.Context, p query.Params) (query.Result[News], error) {
	return s.list(ctx, p)
}

func (s *Service) list(ctx context.Context, p query.Params) (query.Result[News], error) {
	items, err := s.repo.List(ctx, Filter{Category: Category(p.Category), Status: Status(p.Status)})
	if err != nil {
		return query.Result[News]{}, err
	}
	return query.List(items, p), nil
}

// GetBySlug returns a published article and records the read under the view
// policy. Drafts and archived articles are reported as not found. A failed
// view update is logged and does not fail the read.
func (s *Service) GetBySlug(ctx context.Context, slug, viewer string) (News, error) {
	n, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return News{}, err
	}
	if n.Status != StatusPublished {
		return News{}, ErrNotFound
	}

	count, err := s.views.ShouldCount(ctx, n, viewer)
	if err != nil {
		logger.From(ctx).Warn("view policy failed", "news_id", n.ID, "err", err)
		count = false
	}
	if !count {
		return n, nil
	}

	views, err := s.repo.IncrementViews(ctx, n.ID)
	if err != nil {
		logger.From(ctx).Warn("view increment failed", "news_id", n.ID, "err", err)
		return n, nil
	}
	n.Views = views
	return n, nil
}

var ErrInvalidPublishedAt = errors.New("news: publishedAt must be RFC 3339")

// Create stores a new article authored by the caller.
// Published articles without publishedAt are stamped with the current time.
func (s *Service) Create(ctx context.Context, author *auth.Identity, req CreateRequest) (News, error) {
	now := s.clock().UTC()

	n := News{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Slug:            strings.TrimSpace(req.Slug),
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		Category:        req.Category,
		Status:          req.Status,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			return News{}, ErrInvalidPublishedAt
		}
		t = t.UTC()
		n.PublishedAt = &t
	} else if n.Status == StatusPublished {
		n.PublishedAt = &now
	}

	if author != nil {
		n.AuthorID = author.UID
		n.Author = Author{ID: author.UID, Email: author.Email, DisplayName: author.Email}
		if name, ok := author.Claim("name"); ok {
			if display, ok := name.AsString(); ok && display != "" {
				n.Author.DisplayName = display
			}
		}
	}
	if n.AuthorID == "" {
		n.AuthorID = "unknown"
		n.Author.ID = "unknown"
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return News{}, err
	}
	return n, nil
}
