package versions_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
	_ "github.com/beesaferoot/myleasing/migration/versions"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return db
}

func TestRegisteredMigrationsAreValid(t *testing.T) {
	assert.NoError(t, migration.ValidateMigrations(migration.GetRegisteredMigrations()))
}

func TestUpCreatesSchemaAndSeeds(t *testing.T) {
	db := setupTestDB(t)
	m := migration.NewMigrator(db, nil)

	applied, err := m.Up()
	require.NoError(t, err)
	assert.Len(t, applied, len(migration.GetRegisteredMigrations()))

	for _, model := range models.CreationOrder() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Contract{}, "idx_contracts_active_dates"))

	var count int64
	require.NoError(t, db.Model(&models.PropertyType{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestDownAllTheWay(t *testing.T) {
	db := setupTestDB(t)
	m := migration.NewMigrator(db, nil)

	_, err := m.Up()
	require.NoError(t, err)

	for range migration.GetRegisteredMigrations() {
		_, err := m.Down()
		require.NoError(t, err)
	}

	for _, model := range models.CreationOrder() {
		assert.False(t, db.Migrator().HasTable(model))
	}

	_, err = m.Down()
	assert.ErrorIs(t, err, migration.ErrNoAppliedMigrations)
}

func TestSchemaEnforcesForeignKeys(t *testing.T) {
	db := setupTestDB(t)
	_, err := migration.NewMigrator(db, nil).Up()
	require.NoError(t, err)

	orphan := models.Owner{UserID: 999}
	assert.Error(t, db.Create(&orphan).Error)
}
