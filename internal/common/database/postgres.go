// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pitch-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// Unique indexes on pitch_submissions, reported as pq.Error.Constraint.
const (
	ConstraintEmailIdea       = "uq_pitch_submissions_email_idea"
	ConstraintProcessInstance = "uq_pitch_submissions_process_instance"
)

// PitchSchema creates the tables written by the create-pitch-record worker.
const PitchSchema = `
CREATE TABLE IF NOT EXISTS pitch_submissions (
	id              UUID PRIMARY KEY,
	email           TEXT NOT NULL,
	full_name       TEXT NOT NULL,
	idea_summary    TEXT NOT NULL,
	form_data       JSONB NOT NULL,
	score_total     INTEGER NOT NULL,
	score_breakdown JSONB NOT NULL,
	flags           TEXT[] NOT NULL DEFAULT '{}',
	score_band      TEXT NOT NULL,
	total_price     INTEGER NOT NULL,
	source          TEXT NOT NULL,
	status          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	process_instance_key BIGINT
);

ALTER TABLE pitch_submissions ADD COLUMN IF NOT EXISTS process_instance_key BIGINT;

-- One row per founder and idea, and at most one per process instance.
CREATE UNIQUE INDEX IF NOT EXISTS uq_pitch_submissions_email_idea
	ON pitch_submissions (email, idea_summary);
CREATE UNIQUE INDEX IF NOT EXISTS uq_pitch_submissions_process_instance
	ON pitch_submissions (process_instance_key);

CREATE TABLE IF NOT EXISTS audit_log (
	id            BIGSERIAL PRIMARY KEY,
	event_type    TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	details       JSONB,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection. sql.Open does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema applies PitchSchema. Every statement is idempotent.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, PitchSchema); err != nil {
		return fmt.Errorf("apply pitch schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB handed to the workers.
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
