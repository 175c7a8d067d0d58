package news

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepo keeps news in process memory, in insertion order.
// Useful for tests and local development.
type MemoryRepo struct {
	mu    sync.Mutex
	items []News
}

func NewMemoryRepo(seed ...News) *MemoryRepo {
	r := &MemoryRepo{}
	for _, n := range seed {
		r.items = append(r.items, clone(n))
	}
	return r
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]News, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]News, 0, len(r.items))
	for _, n := range r.items {
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		if f.Status != "" && n.Status != f.Status {
			continue
		}
		out = append(out, clone(n))
	}
	return out, nil
}

func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (News, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.items {
		if n.Slug == slug {
			return clone(n), nil
		}
	}
	return News{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, n News) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == n.Slug {
			return ErrSlugTaken
		}
	}
	r.items = append(r.items, clone(n))
	return nil
}

func (r *MemoryRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Views++
			return r.items[i].Views, nil
		}
	}
	return 0, ErrNotFound
}

func clone(n News) News {
	n.Tags = slices.Clone(n.Tags)
	if n.PublishedAt != nil {
		t := *n.PublishedAt
		n.PublishedAt = &t
	}
	return n
}

// Seed returns the launch articles, timed relative to now.
func Seed(now time.Time) []News {
	now = now.UTC()
	yesterday := now.Add(-24 * time.Hour)
	return []News{
		{
			ID:              "1",
			Title:           "エネルギー事業の新展開",
			Slug:            "energy-business-expansion",
			Content:         "<h2>持続可能なエネルギーの未来</h2><p>パワライズは、革新的なエネルギーソリューションの開発を通じて、持続可能な社会の実現に貢献しています。</p><p>新たな取り組みとして、太陽光発電システムの効率化技術の研究開発を進めており、従来比30%の効率向上を実現しました。</p>",
			Excerpt:         "持続可能なエネルギーソリューションの新たな取り組みを開始しました。",
			FeaturedImage:   "/images/energy-expansion.jpg",
			Category:        CategoryEnergy,
			Status:          StatusPublished,
			PublishedAt:     &now,
			MetaTitle:       "エネルギー事業の新展開 | POWERISE",
			MetaDescription: "持続可能なエネルギーソリューションの新たな取り組みについて詳しくご紹介します。",
			Author:          Author{ID: "user1", DisplayName: "山田太郎", Email: "yamada@powerise.com"},
			AuthorID:        "user1",
			Views:           120,
			CreatedAt:       now.Add(-48 * time.Hour),
			UpdatedAt:       now,
		},
		{
			ID:              "2",
			Title:           "インフラ技術の革新",
			Slug:            "infrastructure-innovation",
			Content:         "<h2>次世代インフラ技術の開発</h2><p>最新のIoT技術とAIを活用した次世代インフラシステムの開発を進めています。</p>",
			Excerpt:         "最新のインフラ技術により、より効率的なシステムを構築しています。",
			FeaturedImage:   "/images/infrastructure-innovation.jpg",
			Category:        CategoryInfrastructure,
			Status:          StatusPublished,
			PublishedAt:     &yesterday,
			MetaTitle:       "インフラ技術の革新 | POWERISE",
			MetaDescription: "最新のインフラ技術による効率的なシステム構築について詳しくご紹介します。",
			Author:          Author{DisplayName: "田中次郎"},
			Views:           89,
			CreatedAt:       now.Add(-72 * time.Hour),
			UpdatedAt:       yesterday,
		},
		{
			ID:            "3",
			Title:         "環境コンサルティング新サービス",
			Slug:          "environment-consulting-service",
			Content:       "<p>企業の環境負荷削減をサポートする新しいコンサルティングサービスを開始します。</p>",
			Excerpt:       "企業の環境負荷削減をサポートする新しいコンサルティングサービスを開始。",
			FeaturedImage: "/images/environment-consulting.jpg",
			Category:      CategoryConsulting,
			Status:        StatusDraft,
			Author:        Author{ID: "user2", DisplayName: "佐藤花子", Email: "sato@powerise.com"},
			AuthorID:      "user2",
			CreatedAt:     yesterday,
			UpdatedAt:     now.Add(-time.Hour),
		},
	}
}
