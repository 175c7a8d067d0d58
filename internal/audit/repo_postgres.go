package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo appends to the audit_events table created by storage.EnsureSchema.
// It never issues UPDATE or DELETE.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, type, action, actor_uid, actor_email, ip_address, target_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, string(e.Type), e.Action, e.ActorUID, e.ActorEmail, e.IPAddress, e.TargetID, e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
