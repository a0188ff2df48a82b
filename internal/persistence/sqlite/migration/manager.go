package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
)

// Manager orchestrates scanning and applying migrations.
type Manager struct {
	executor *Executor
	fsys     fs.FS
	dir      string
	logger   *slog.Logger
}

// NewManager creates a manager reading migrations from dir within fsys.
func NewManager(db *sql.DB, fsys fs.FS, dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		executor: NewExecutor(db),
		fsys:     fsys,
		dir:      dir,
		logger:   logger.With("component", "migration"),
	}
}

// RunMigrations applies all pending migrations in version order. Migrations
// that were already applied are verified against their recorded checksum.
func (m *Manager) RunMigrations(ctx context.Context) error {
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Pending) == 0 {
		m.logger.InfoContext(ctx, "schema is up to date", "version", status.CurrentVersion)
		return nil
	}

	for _, migration := range status.Pending {
		elapsed, err := m.executor.Execute(ctx, migration)
		if err != nil {
			m.logger.ErrorContext(ctx, "migration failed", "version", migration.Version, "error", err)
			return err
		}
		m.logger.InfoContext(ctx, "migration applied",
			"version", migration.Version,
			"description", migration.Description,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return nil
}

// Status reports the applied and pending migrations.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, err
	}

	available, err := Scan(m.fsys, m.dir)
	if err != nil {
		return nil, err
	}
	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	recorded := make(map[string]AppliedMigration, len(applied))
	for _, a := range applied {
		recorded[a.Version] = a
	}

	status := &Status{Applied: applied}
	for _, migration := range available {
		a, ok := recorded[migration.Version]
		if !ok {
			status.Pending = append(status.Pending, migration)
			continue
		}
		if a.Checksum != migration.Checksum {
			return nil, newMigrationError(migration.Version, migration.FilePath, "verify checksum",
				fmt.Errorf("%w: recorded %s, file %s", ErrChecksumMismatch, a.Checksum, migration.Checksum))
		}
	}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}
