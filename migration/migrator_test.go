package migration_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/myleasing/migration"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	return db
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", name).Count(&count).Error
	require.NoError(t, err)
	return count == 1
}

func createTableMigration(version, table string) *migration.Migration {
	return &migration.Migration{
		Version:   version,
		Name:      "create_" + table,
		CreatedAt: time.Now(),
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE " + table).Error
		},
	}
}

func newMigrator(db *gorm.DB, migrations ...*migration.Migration) *migration.Migrator {
	migration.ResetMigrations()
	m := migration.NewMigrator(db, nil)
	for _, mr := range migrations {
		m.Register(mr)
	}
	return m
}

func TestMigrator_Up(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db, createTableMigration("20240315000001", "test"))

	applied, err := m.Up()
	require.NoError(t, err)
	assert.Len(t, applied, 1)

	var record migration.MigrationRecord
	require.NoError(t, db.Where("version = ?", "20240315000001").First(&record).Error)
	assert.Equal(t, "create_test", record.Name)
	assert.True(t, tableExists(t, db, "test"))
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db, createTableMigration("20240315000001", "test"))

	_, err := m.Up()
	require.NoError(t, err)

	applied, err := m.Up()
	require.NoError(t, err)
	assert.Empty(t, applied)

	var count int64
	require.NoError(t, db.Model(&migration.MigrationRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMigrator_Down(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db,
		createTableMigration("20240315000001", "first"),
		createTableMigration("20240315000002", "second"),
	)

	_, err := m.Up()
	require.NoError(t, err)

	reverted, err := m.Down()
	require.NoError(t, err)
	assert.Equal(t, "20240315000002", reverted.Version)

	assert.False(t, tableExists(t, db, "second"))
	assert.True(t, tableExists(t, db, "first"))

	var record migration.MigrationRecord
	err = db.Where("version = ?", "20240315000002").First(&record).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMigrator_DownWithNothingApplied(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db)

	_, err := m.Down()
	assert.ErrorIs(t, err, migration.ErrNoAppliedMigrations)
}

func TestMigrator_FailedUpRollsBack(t *testing.T) {
	db := setupTestDB(t)
	broken := &migration.Migration{
		Version: "20240315000002",
		Name:    "broken",
		Up: func(db *gorm.DB) error {
			if err := db.Exec("CREATE TABLE half (id INTEGER PRIMARY KEY)").Error; err != nil {
				return err
			}
			return db.Exec("THIS IS NOT SQL").Error
		},
		Down: func(db *gorm.DB) error { return nil },
	}
	m := newMigrator(db, createTableMigration("20240315000001", "first"), broken)

	applied, err := m.Up()
	assert.Error(t, err)
	assert.Len(t, applied, 1)
	assert.False(t, tableExists(t, db, "half"))

	pending, err := m.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "broken", pending[0].Name)
}

func TestMigrator_Status(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db, createTableMigration("20240315000001", "first"))

	_, err := m.Up()
	require.NoError(t, err)
	m.Register(createTableMigration("20240315000002", "second"))

	statuses, err := m.Status()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Applied)
	assert.False(t, statuses[0].AppliedAt.IsZero())
	assert.False(t, statuses[1].Applied)
}

func TestMigrator_History(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db,
		createTableMigration("20240315000001", "first"),
		createTableMigration("20240315000002", "second"),
	)
	_, err := m.Up()
	require.NoError(t, err)

	history, err := m.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "20240315000002", history[0].Version)
}

func TestMigrator_RejectsDuplicateVersions(t *testing.T) {
	db := setupTestDB(t)
	m := newMigrator(db,
		createTableMigration("20240315000001", "first"),
		createTableMigration("20240315000001", "again"),
	)

	_, err := m.Up()
	assert.ErrorContains(t, err, "duplicate migration version")
	assert.False(t, tableExists(t, db, "first"))
}
