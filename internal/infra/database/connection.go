package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Driver do Postgres
)

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err // Supabase não respondeu
	}

	return db, nil
}

// EnsureSchema cria a tabela leads se ainda não existir.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			contact       TEXT NOT NULL DEFAULT '',
			alt_phone     TEXT,
			email         TEXT,
			alt_email     TEXT,
			status        TEXT NOT NULL,
			qualification TEXT NOT NULL,
			interest      TEXT NOT NULL DEFAULT '',
			source        TEXT NOT NULL,
			assigned_to   TEXT NOT NULL DEFAULT '',
			job_interest  TEXT,
			state         TEXT,
			city          TEXT,
			passout_year  TEXT,
			heard_from    TEXT,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_leads_status_updated ON leads(status, updated_at DESC);
		CREATE INDEX IF NOT EXISTS idx_leads_updated ON leads(updated_at DESC);
	`)
	return err
}
