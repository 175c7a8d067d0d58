package news

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var newsCols = []string{
	"id", "title", "slug", "content", "excerpt", "featured_image", "category", "status", "published_at",
	"tags", "meta_title", "meta_description", "author_id", "author_name", "author_email", "views",
	"created_at", "updated_at",
}

func newMock(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepo(db), mock
}

func TestPostgresList(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM news\\s+WHERE .+ ORDER BY seq").
		WithArgs("ENERGY", "PUBLISHED").
		WillReturnRows(sqlmock.NewRows(newsCols).
			AddRow("1", "T", "t", "c", "", "", "ENERGY", "PUBLISHED", now, `["x"]`, "", "", "u1", "Yamada", "", int64(5), now, now))

	items, err := repo.List(context.Background(), Filter{Category: CategoryEnergy, Status: StatusPublished})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Category != CategoryEnergy || items[0].Views != 5 {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].PublishedAt == nil || len(items[0].Tags) != 1 || items[0].AuthorID != "u1" {
		t.Fatalf("unexpected item %+v", items[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetBySlugNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("FROM news WHERE slug").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(newsCols))

	if _, err := repo.GetBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCreateDuplicateSlug(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO news").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "news_slug_key"})

	err := repo.Create(context.Background(), News{ID: "x", Slug: "dup", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO news").WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now().UTC()
	err := repo.Create(context.Background(), News{
		ID: "x", Title: "T", Slug: "s", Content: "c", Category: CategoryEnergy, Status: StatusPublished,
		PublishedAt: &now, Tags: []string{"a"}, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresIncrementViews(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("UPDATE news SET views = views \\+ 1").WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"views"}).AddRow(int64(121)))
	mock.ExpectQuery("UPDATE news SET views").WithArgs("9").
		WillReturnError(sql.ErrNoRows)

	v, err := repo.IncrementViews(context.Background(), "1")
	if err != nil || v != 121 {
		t.Fatalf("got %d, %v", v, err)
	}
	if _, err := repo.IncrementViews(context.Background(), "9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
