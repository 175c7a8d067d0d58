package news

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"powerise-api/pkg/storage"
)

// PostgresRepo stores news in the news table created by storage.EnsureSchema.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const newsColumns = `id, title, slug, content, excerpt, featured_image, category, status, published_at,
	tags, meta_title, meta_description, author_id, author_name, author_email, views, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(s rowScanner) (News, error) {
	var (
		n           News
		publishedAt sql.NullTime
		tags        string
	)
	err := s.Scan(&n.ID, &n.Title, &n.Slug, &n.Content, &n.Excerpt, &n.FeaturedImage, &n.Category, &n.Status,
		&publishedAt, &tags, &n.MetaTitle, &n.MetaDescription, &n.Author.ID, &n.Author.DisplayName,
		&n.Author.Email, &n.Views, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return News{}, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		n.PublishedAt = &t
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return News{}, fmt.Errorf("decode tags of %s: %w", n.ID, err)
		}
	}
	n.AuthorID = n.Author.ID
	return n, nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]News, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR status = $2)
		ORDER BY seq`,
		string(f.Category), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	out := []News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) GetBySlug(ctx context.Context, slug string) (News, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE slug = $1`, slug)
	n, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return News{}, ErrNotFound
	}
	if err != nil {
		return News{}, fmt.Errorf("get news %q: %w", slug, err)
	}
	return n, nil
}

func (r *PostgresRepo) Create(ctx context.Context, n News) error {
	tags := "[]"
	if len(n.Tags) > 0 {
		b, err := json.Marshal(n.Tags)
		if err != nil {
			return err
		}
		tags = string(b)
	}
	var publishedAt sql.NullTime
	if n.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *n.PublishedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO news (`+newsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		n.ID, n.Title, n.Slug, n.Content, n.Excerpt, n.FeaturedImage, string(n.Category), string(n.Status),
		publishedAt, tags, n.MetaTitle, n.MetaDescription, n.Author.ID, n.Author.DisplayName, n.Author.Email,
		n.Views, n.CreatedAt, n.UpdatedAt)
	if storage.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

func (r *PostgresRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE news SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment views of %s: %w", id, err)
	}
	return views, nil
}
