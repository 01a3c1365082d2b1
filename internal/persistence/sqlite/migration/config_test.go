package migration

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteConfig_DSN(t *testing.T) {
	t.Parallel()

	dsn := DefaultSQLiteConfig("/var/lib/attendance/attendance.db").DSN()
	require.True(t, strings.HasPrefix(dsn, "file:/var/lib/attendance/attendance.db?"), dsn)

	query, err := url.ParseQuery(dsn[strings.Index(dsn, "?")+1:])
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"busy_timeout(5000)",
		"foreign_keys(1)",
		"journal_mode(WAL)",
		"synchronous(NORMAL)",
	}, query["_pragma"])
	assert.Equal(t, "immediate", query.Get("_txlock"))
}

func TestSQLiteConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultSQLiteConfig("attendance.db").Validate())

	cfg := DefaultSQLiteConfig("")
	cfg.JournalMode = "sideways"
	cfg.BusyTimeout = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path cannot be empty")
	assert.Contains(t, err.Error(), "invalid journal mode")
	assert.Contains(t, err.Error(), "busy timeout")

	assert.Error(t, DefaultSQLiteConfig(":memory:").Validate())
}
