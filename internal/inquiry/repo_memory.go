package inquiry

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps inquiries in process memory, in insertion order.
type MemoryRepo struct {
	mu    sync.Mutex
	items []Inquiry
}

func NewMemoryRepo(seed ...Inquiry) *MemoryRepo {
	r := &MemoryRepo{}
	for _, i := range seed {
		r.items = append(r.items, clone(i))
	}
	return r
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Inquiry, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Inquiry, 0, len(r.items))
	for _, i := range r.items {
		if f.Category != "" && i.Category != f.Category {
			continue
		}
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		out = append(out, clone(i))
	}
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, i Inquiry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, clone(i))
	return nil
}

func clone(i Inquiry) Inquiry {
	if i.AssignedTo != nil {
		a := *i.AssignedTo
		i.AssignedTo = &a
	}
	return i
}

// Seed returns sample inquiries, timed relative to now.
func Seed(now time.Time) []Inquiry {
	now = now.UTC()
	return []Inquiry{
		{
			ID:        "1",
			Name:      "田中太郎",
			Email:     "tanaka@example.com",
			Company:   "株式会社サンプル",
			Phone:     "03-1234-5678",
			Subject:   "エネルギーソリューションについて",
			Message:   "御社のエネルギーソリューションについて詳しく伺いたいです。",
			Category:  CategoryEnergyServices,
			Status:    StatusNew,
			Priority:  PriorityHigh,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "2",
			Name:      "山田花子",
			Email:     "yamada@example.com",
			Subject:   "一般的なお問い合わせ",
			Message:   "採用情報について教えてください。",
			Category:  CategoryGeneralInquiry,
			Status:    StatusInProgress,
			Priority:  PriorityMedium,
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-time.Hour),
			AssignedTo: &Assignee{
				ID:          "admin1",
				DisplayName: "管理者太郎",
				Email:       "admin@powerise.com",
			},
		},
	}
}
