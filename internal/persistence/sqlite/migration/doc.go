// Package migration applies versioned SQL schema migrations to a SQLite
// database.
//
// Migrations are read from an fs.FS, usually an embedded directory, and must
// be named {version}_{description}.sql (e.g. "001_initial_schema.sql").
// Applied versions are tracked in the schema_migrations table and every
// migration runs in its own transaction together with its version record.
//
// Example usage:
//
//	manager := migration.NewManager(db, migrationsFS, "migrations", logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
