// Package migration applies versioned SQL schema changes to the attendance
// SQLite database.
//
// Migrations are read from any fs.FS, which lets the sqlite package ship its
// schema embedded in the binary while tests supply an fstest.MapFS. Files must
// follow the naming convention {version}_{description}.sql (for example
// "002_create_attendance_sessions.sql"). Each file runs in its own
// transaction and is recorded in the schema_migrations table together with
// its SHA-256 checksum, so a file is never applied twice and edits to an
// already applied file can be detected.
//
// Example usage:
//
//	scanner := NewFileScanner()
//	executor := NewSQLiteExecutor(db)
//	manager := NewMigrationManager(scanner, executor, migrationsFS, "migrations", logger)
//	if err := manager.RunMigrations(ctx); err != nil {
//		return err
//	}
package migration
