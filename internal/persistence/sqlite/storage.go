package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Storage bundles the SQLite repositories over one connection pool. It
// satisfies every repository interface of the persistence package.
type Storage struct {
	*RoomRepository
	*WeekPlanRepository
	*AssignmentRepository
	*BlockerRepository

	pool   *ConnectionPool
	logger *slog.Logger
}

// Open connects to the database described by cfg. Call Migrate before use.
func Open(cfg Config, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	pool, err := NewConnectionPool(cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{
		RoomRepository:       NewRoomRepository(pool, cfg.Now),
		WeekPlanRepository:   NewWeekPlanRepository(pool, cfg.Now),
		AssignmentRepository: NewAssignmentRepository(pool, cfg.Now),
		BlockerRepository:    NewBlockerRepository(pool, cfg.Now),
		pool:                 pool,
		logger:               logger,
	}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	manager := migration.NewManager(s.pool.DB(), migrationsFS, "migrations", s.logger)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
