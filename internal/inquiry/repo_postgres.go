package inquiry

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo stores inquiries in the inquiries table created by storage.EnsureSchema.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const inquiryColumns = `id, name, email, company, phone, subject, message, category, status, priority,
	assignee_id, assignee_name, assignee_email, created_at, updated_at`

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Inquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inquiryColumns+` FROM inquiries
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR status = $2)
		ORDER BY seq`,
		string(f.Category), string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	out := []Inquiry{}
	for rows.Next() {
		var (
			i        Inquiry
			assignee Assignee
		)
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Company, &i.Phone, &i.Subject, &i.Message,
			&i.Category, &i.Status, &i.Priority, &assignee.ID, &assignee.DisplayName, &assignee.Email,
			&i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		if assignee.ID != "" {
			i.AssignedTo = &assignee
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return out, nil
}

func (r *PostgresRepo) Create(ctx context.Context, i Inquiry) error {
	var a Assignee
	if i.AssignedTo != nil {
		a = *i.AssignedTo
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO inquiries (`+inquiryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		i.ID, i.Name, i.Email, i.Company, i.Phone, i.Subject, i.Message,
		string(i.Category), string(i.Status), string(i.Priority), a.ID, a.DisplayName, a.Email,
		i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}
