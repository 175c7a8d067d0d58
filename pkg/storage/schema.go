package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the tables used by the Postgres repositories.
// seq is the ordering key: list reads return rows in insertion order.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS news (
	seq              BIGSERIAL PRIMARY KEY,
	id               TEXT        NOT NULL UNIQUE,
	title            TEXT        NOT NULL,
	slug             TEXT        NOT NULL UNIQUE,
	content          TEXT        NOT NULL,
	excerpt          TEXT        NOT NULL DEFAULT '',
	featured_image   TEXT        NOT NULL DEFAULT '',
	category         TEXT        NOT NULL,
	status           TEXT        NOT NULL,
	published_at     TIMESTAMPTZ NULL,
	tags             TEXT        NOT NULL DEFAULT '[]',
	meta_title       TEXT        NOT NULL DEFAULT '',
	meta_description TEXT        NOT NULL DEFAULT '',
	author_id        TEXT        NOT NULL DEFAULT '',
	author_name      TEXT        NOT NULL DEFAULT '',
	author_email     TEXT        NOT NULL DEFAULT '',
	views            BIGINT      NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS news_status_category_idx ON news (status, category)`,
	`CREATE TABLE IF NOT EXISTS inquiries (
	seq          BIGSERIAL PRIMARY KEY,
	id           TEXT        NOT NULL UNIQUE,
	name         TEXT        NOT NULL,
	email        TEXT        NOT NULL,
	company      TEXT        NOT NULL DEFAULT '',
	phone        TEXT        NOT NULL DEFAULT '',
	subject      TEXT        NOT NULL,
	message      TEXT        NOT NULL,
	category     TEXT        NOT NULL,
	status       TEXT        NOT NULL,
	priority     TEXT        NOT NULL,
	assignee_id  TEXT        NOT NULL DEFAULT '',
	assignee_name  TEXT      NOT NULL DEFAULT '',
	assignee_email TEXT      NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS inquiries_status_category_idx ON inquiries (status, category)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
	seq         BIGSERIAL PRIMARY KEY,
	id          TEXT        NOT NULL UNIQUE,
	type        TEXT        NOT NULL,
	action      TEXT        NOT NULL,
	actor_uid   TEXT        NOT NULL,
	actor_email TEXT        NOT NULL DEFAULT '',
	ip_address  TEXT        NOT NULL DEFAULT '',
	target_id   TEXT        NOT NULL DEFAULT '',
	message     TEXT        NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS audit_events_actor_idx ON audit_events (actor_uid, created_at)`,
}

// EnsureSchema creates missing tables and indexes in one transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, nil, func(ctx context.Context, tx *sql.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
