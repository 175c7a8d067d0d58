package news

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewPolicy decides whether a read of item by viewer counts as a view.
type ViewPolicy interface {
	ShouldCount(ctx context.Context, item News, viewer string) (bool, error)
}

// CountEveryRead counts every successful read.
type CountEveryRead struct{}

func (CountEveryRead) ShouldCount(context.Context, News, string) (bool, error) { return true, nil }

// OncePerViewer counts a viewer at most once per article within Window.
type OncePerViewer struct {
	rdb    redis.Cmdable
	window time.Duration
}

func NewOncePerViewer(rdb redis.Cmdable, window time.Duration) *OncePerViewer {
	if window <= 0 {
		window = 30 * time.Minute
	}
	return &OncePerViewer{rdb: rdb, window: window}
}

func (p *OncePerViewer) ShouldCount(ctx context.Context, item News, viewer string) (bool, error) {
	if viewer == "" {
		return true, nil
	}
	return p.rdb.SetNX(ctx, "news:viewed:"+item.ID+":"+viewer, 1, p.window).Result()
}
