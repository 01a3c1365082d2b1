package migration

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileScanner_ScanMigrations(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/010_add_index.sql":     {Data: []byte("CREATE INDEX idx ON t(a);")},
		"migrations/002_second.sql":        {Data: []byte("-- Description: Second step\nCREATE TABLE b (id TEXT);")},
		"migrations/001_create_tables.sql": {Data: []byte("CREATE TABLE a (id TEXT);")},
		"migrations/README.md":             {Data: []byte("ignored")},
		"migrations/nested/003_skip.sql":   {Data: []byte("CREATE TABLE c (id TEXT);")},
	}

	migrations, err := NewFileScanner().ScanMigrations(fsys, "migrations")
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, []string{"001", "002", "010"}, []string{migrations[0].Version, migrations[1].Version, migrations[2].Version})
	assert.Equal(t, "create tables", migrations[0].Description)
	assert.Equal(t, "Second step", migrations[1].Description)
	assert.Equal(t, "migrations/002_second.sql", migrations[1].FilePath)
	assert.Equal(t, Checksum("CREATE TABLE a (id TEXT);"), migrations[0].Checksum)
}

func TestFileScanner_ScanMigrationsErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		fsys fstest.MapFS
		want error
	}{
		"duplicate version": {
			fsys: fstest.MapFS{
				"m/001_a.sql":  {Data: []byte("SELECT 1;")},
				"m/0001_b.sql": {Data: []byte("SELECT 2;")},
			},
			want: ErrDuplicateVersion,
		},
		"bad name": {
			fsys: fstest.MapFS{"m/create.sql": {Data: []byte("SELECT 1;")}},
			want: ErrInvalidMigrationFile,
		},
		"empty file": {
			fsys: fstest.MapFS{"m/001_empty.sql": {Data: []byte("  \n")}},
			want: ErrInvalidMigrationFile,
		},
		"only comments": {
			fsys: fstest.MapFS{"m/001_comments.sql": {Data: []byte("-- nothing here\n")}},
			want: ErrInvalidMigrationFile,
		},
		"unbalanced parentheses": {
			fsys: fstest.MapFS{"m/001_parens.sql": {Data: []byte("CREATE TABLE a (id TEXT;")}},
			want: ErrInvalidMigrationFile,
		},
		"unterminated string": {
			fsys: fstest.MapFS{"m/001_quote.sql": {Data: []byte("INSERT INTO a VALUES ('x);")}},
			want: ErrInvalidMigrationFile,
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewFileScanner().ScanMigrations(tc.fsys, "m")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestFileScanner_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewFileScanner().ScanMigrations(fstest.MapFS{}, "absent")
	var fsErr *FileSystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "absent", fsErr.Path)
}

func TestValidateSQLSyntax_DoubledQuotes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateSQLSyntax("INSERT INTO a VALUES ('it''s (fine');"))
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	content := `-- Description: demo
CREATE TABLE a (id TEXT, note TEXT DEFAULT 'a;b');
-- trailing comment
CREATE INDEX idx_a ON a(id);
`
	got := splitStatements(content)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id TEXT, note TEXT DEFAULT 'a;b')", got[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a(id)", got[1])
}
