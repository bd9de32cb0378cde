package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteEnablesForeignKeys(t *testing.T) {
	db, err := Open(Options{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer Close(db)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "mysql", DSN: "root@/leasing"})
	assert.Error(t, err)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(Options{Driver: DriverSQLite})
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "test.db?_foreign_keys=on", withForeignKeys("test.db"))
	assert.Equal(t, "file:test.db?cache=shared&_foreign_keys=on", withForeignKeys("file:test.db?cache=shared"))
	assert.Equal(t, "test.db?_fk=1", withForeignKeys("test.db?_fk=1"))
}
