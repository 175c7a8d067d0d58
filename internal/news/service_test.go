package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"powerise-api/internal/auth"
	"powerise-api/internal/query"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(views ViewPolicy) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo(Seed(testNow)...)
	svc := NewService(repo, views)
	svc.clock = func() time.Time { return testNow }
	return svc, repo
}

func TestListPublishedExcludesDrafts(t *testing.T) {
	svc, _ := newTestService(nil)

	res, err := svc.ListPublished(context.Background(), query.Params{Limit: 10, Status: string(StatusDraft)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 2 || len(res.Items) != 2 {
		t.Fatalf("expected 2 published, got total=%d", res.Total)
	}
	for _, n := range res.Items {
		if n.Status != StatusPublished {
			t.Fatalf("draft leaked: %s", n.Slug)
		}
	}
}

func TestListPublishedByCategory(t *testing.T) {
	svc, _ := newTestService(nil)

	res, err := svc.ListPublished(context.Background(), query.Params{Limit: 10, Category: string(CategoryEnergy)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 1 || res.Items[0].Slug != "energy-business-expansion" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestListPublishedPaging(t *testing.T) {
	svc, _ := newTestService(nil)

	res, _ := svc.ListPublished(context.Background(), query.Params{Limit: 1})
	if res.Total != 2 || len(res.Items) != 1 || !res.HasMore || res.Items[0].ID != "1" {
		t.Fatalf("unexpected first page %+v", res)
	}
	res, _ = svc.ListPublished(context.Background(), query.Params{Limit: 1, Offset: 1})
	if len(res.Items) != 1 || res.HasMore || res.Items[0].ID != "2" {
		t.Fatalf("unexpected second page %+v", res)
	}
}

func TestListAllIncludesDrafts(t *testing.T) {
	svc, _ := newTestService(nil)

	res, _ := svc.ListAll(context.Background(), query.Params{Limit: 10})
	if res.Total != 3 {
		t.Fatalf("expected 3, got %d", res.Total)
	}
	res, _ = svc.ListAll(context.Background(), query.Params{Limit: 10, Status: string(StatusDraft)})
	if res.Total != 1 || res.Items[0].ID != "3" {
		t.Fatalf("unexpected drafts %+v", res)
	}
}

func TestGetBySlugCountsViews(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	n, err := svc.GetBySlug(ctx, "energy-business-expansion", "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.Views != 121 {
		t.Fatalf("expected 121 views, got %d", n.Views)
	}
	n, _ = svc.GetBySlug(ctx, "energy-business-expansion", "1.2.3.4")
	if n.Views != 122 {
		t.Fatalf("expected 122 views, got %d", n.Views)
	}
}

func TestGetBySlugConcurrentReadsKeepEveryView(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	const readers = 200

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool, readers)
	)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := svc.GetBySlug(ctx, "energy-business-expansion", fmt.Sprintf("10.0.0.%d", i))
			if err != nil {
				t.Errorf("read %d: %v", i, err)
				return
			}
			mu.Lock()
			seen[n.Views] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	// each read observed its own increment
	if len(seen) != readers {
		t.Fatalf("expected %d distinct view counts, got %d", readers, len(seen))
	}
	n, err := svc.repo.GetBySlug(ctx, "energy-business-expansion")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.Views != 120+readers {
		t.Fatalf("expected %d views, got %d", 120+readers, n.Views)
	}
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	svc, _ := newTestService(nil)
	if _, err := svc.GetBySlug(context.Background(), "environment-consulting-service", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), "nope", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type brokenPolicy struct{}

func (brokenPolicy) ShouldCount(context.Context, News, string) (bool, error) {
	return false, errors.New("redis down")
}

type skipPolicy struct{}

func (skipPolicy) ShouldCount(context.Context, News, string) (bool, error) { return false, nil }

func TestGetBySlugPolicyFailureStillServes(t *testing.T) {
	svc, _ := newTestService(brokenPolicy{})
	n, err := svc.GetBySlug(context.Background(), "infrastructure-innovation", "v")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.Views != 89 {
		t.Fatalf("views must be unchanged, got %d", n.Views)
	}
}

func TestGetBySlugPolicySkip(t *testing.T) {
	svc, repo := newTestService(skipPolicy{})
	if _, err := svc.GetBySlug(context.Background(), "infrastructure-innovation", "v"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	n, _ := repo.GetBySlug(context.Background(), "infrastructure-innovation")
	if n.Views != 89 {
		t.Fatalf("views must be unchanged, got %d", n.Views)
	}
}

func TestCreateStampsPublishedAt(t *testing.T) {
	svc, repo := newTestService(nil)
	author := &auth.Identity{
		UID:    "admin-1",
		Email:  "admin@powerise.com",
		Claims: map[string]auth.ClaimValue{"name": auth.StringClaim("管理者")},
	}

	n, err := svc.Create(context.Background(), author, CreateRequest{
		Title:    "New",
		Slug:     "new-article",
		Content:  "<p>x</p>",
		Category: CategoryCompany,
		Status:   StatusPublished,
		Tags:     []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.ID == "" || n.AuthorID != "admin-1" || n.Author.DisplayName != "管理者" || n.Views != 0 {
		t.Fatalf("unexpected news %+v", n)
	}
	if n.PublishedAt == nil || !n.PublishedAt.Equal(testNow) {
		t.Fatalf("publishedAt = %v", n.PublishedAt)
	}

	stored, err := repo.GetBySlug(context.Background(), "new-article")
	if err != nil || stored.ID != n.ID {
		t.Fatalf("not stored: %v", err)
	}
}

func TestCreateDraftHasNoPublishedAt(t *testing.T) {
	svc, _ := newTestService(nil)
	n, err := svc.Create(context.Background(), nil, CreateRequest{
		Title: "Draft", Slug: "draft", Content: "c", Category: CategoryGeneral, Status: StatusDraft,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.PublishedAt != nil || n.AuthorID != "unknown" {
		t.Fatalf("unexpected news %+v", n)
	}
}

func TestCreateKeepsExplicitPublishedAt(t *testing.T) {
	svc, _ := newTestService(nil)
	n, err := svc.Create(context.Background(), nil, CreateRequest{
		Title: "T", Slug: "t", Content: "c", Category: CategoryGeneral, Status: StatusPublished,
		PublishedAt: "2024-12-24T10:00:00+09:00",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := time.Date(2024, 12, 24, 1, 0, 0, 0, time.UTC)
	if !n.PublishedAt.Equal(want) {
		t.Fatalf("publishedAt = %v", n.PublishedAt)
	}
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Create(context.Background(), nil, CreateRequest{
		Title: "Dup", Slug: "energy-business-expansion", Content: "c", Category: CategoryEnergy, Status: StatusDraft,
	})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}
