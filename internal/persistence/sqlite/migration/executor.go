package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const createVersionTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL,
	checksum TEXT NOT NULL,
	execution_time_ms INTEGER NOT NULL
)`

// Executor runs migrations against a database and tracks applied versions.
type Executor struct {
	db  *sql.DB
	now func() time.Time
}

// NewExecutor creates an executor for db.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db, now: time.Now}
}

// InitializeVersionTable creates the schema_migrations table if needed.
func (e *Executor) InitializeVersionTable(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, createVersionTableSQL); err != nil {
		return newMigrationError("", "", "create version table", err)
	}
	return nil
}

// AppliedMigrations returns every recorded migration ordered by version.
func (e *Executor) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT version, applied_at, checksum, execution_time_ms
		FROM schema_migrations
		ORDER BY CAST(version AS INTEGER)`)
	if err != nil {
		return nil, newMigrationError("", "", "query applied versions", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
			elapsedMS int64
		)
		if err := rows.Scan(&m.Version, &appliedAt, &m.Checksum, &elapsedMS); err != nil {
			return nil, newMigrationError("", "", "scan applied version", err)
		}
		m.AppliedAt, err = time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, newMigrationError(m.Version, "", "parse applied_at", err)
		}
		m.ExecutionTime = time.Duration(elapsedMS) * time.Millisecond
		applied = append(applied, m)
	}
	if err := rows.Err(); err != nil {
		return nil, newMigrationError("", "", "iterate applied versions", err)
	}
	return applied, nil
}

// Execute runs every statement of m and records the version in one
// transaction, so a failing migration leaves no trace.
func (e *Executor) Execute(ctx context.Context, m Migration) (time.Duration, error) {
	started := e.now()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newMigrationError(m.Version, m.FilePath, "begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range splitStatements(m.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, newMigrationError(m.Version, m.FilePath, fmt.Sprintf("execute statement %d", i+1),
				fmt.Errorf("%w: %v", ErrMigrationFailed, err))
		}
	}

	elapsed := e.now().Sub(started)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (version, description, applied_at, checksum, execution_time_ms)
		VALUES (?, ?, ?, ?, ?)`,
		m.Version, m.Description, e.now().UTC().Format(time.RFC3339Nano), m.Checksum, elapsed.Milliseconds(),
	); err != nil {
		return 0, newMigrationError(m.Version, m.FilePath, "record version", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, newMigrationError(m.Version, m.FilePath, "commit", err)
	}
	return elapsed, nil
}
