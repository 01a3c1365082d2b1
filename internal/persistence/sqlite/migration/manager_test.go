package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := TempFileTestSQLiteConfig(filepath.Join(t.TempDir(), "migration.db")).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"migrations/001_create_widgets.sql": {Data: []byte(`-- Description: Create widgets
CREATE TABLE widgets (id TEXT PRIMARY KEY, name TEXT NOT NULL);
CREATE INDEX idx_widgets_name ON widgets(name);`)},
		"migrations/002_seed_widgets.sql": {Data: []byte(`INSERT INTO widgets (id, name) VALUES ('w1', 'it''s a widget');`)},
	}
}

func TestMigrationManager_RunMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	fsys := testMigrations()
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil)

	require.NoError(t, manager.RunMigrations(ctx))

	var name string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT name FROM widgets WHERE id = 'w1'`).Scan(&name))
	assert.Equal(t, "it's a widget", name)

	status, err := manager.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "002", status.CurrentVersion)
	assert.Zero(t, status.PendingCount)
	require.Len(t, status.AppliedMigrations, 2)
	assert.Equal(t, Checksum(string(fsys["migrations/001_create_widgets.sql"].Data)), status.AppliedMigrations[0].Checksum)

	// A second run is a no-op.
	require.NoError(t, manager.RunMigrations(ctx))
}

func TestMigrationManager_PendingAfterNewFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	fsys := testMigrations()
	require.NoError(t, NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil).RunMigrations(ctx))

	fsys["migrations/003_add_color.sql"] = &fstest.MapFile{Data: []byte(`ALTER TABLE widgets ADD COLUMN color TEXT;`)}
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil)

	pending, err := manager.GetPendingMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "003", pending[0].Version)

	require.NoError(t, manager.RunMigrations(ctx))
	_, err = db.ExecContext(ctx, `UPDATE widgets SET color = 'red'`)
	assert.NoError(t, err)
}

func TestMigrationManager_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	fsys := testMigrations()
	require.NoError(t, NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil).RunMigrations(ctx))

	fsys["migrations/002_seed_widgets.sql"] = &fstest.MapFile{Data: []byte(`INSERT INTO widgets (id, name) VALUES ('w2', 'edited');`)}
	err := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil).RunMigrations(ctx)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestMigrationManager_SequenceGap(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/001_a.sql": {Data: []byte("CREATE TABLE a (id TEXT);")},
		"migrations/003_c.sql": {Data: []byte("CREATE TABLE c (id TEXT);")},
	}
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(openTestDB(t)), fsys, "migrations", nil)

	err := manager.RunMigrations(context.Background())
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestMigrationManager_FailedMigrationRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"migrations/001_broken.sql": {Data: []byte("CREATE TABLE ok (id TEXT);\nINSERT INTO missing_table VALUES (1);")},
	}
	manager := NewMigrationManager(NewFileScanner(), NewSQLiteExecutor(db), fsys, "migrations", nil)

	err := manager.RunMigrations(ctx)
	require.ErrorIs(t, err, ErrMigrationFailed)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE name = 'ok'`).Scan(&count))
	assert.Zero(t, count)

	status, err := manager.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingCount)
}
