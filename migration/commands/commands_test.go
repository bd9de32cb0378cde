package commands_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
	"github.com/beesaferoot/myleasing/migration/commands"
	_ "github.com/beesaferoot/myleasing/migration/versions"
)

type registry struct{}

func (registry) GetModels() map[string]interface{} { return models.ModelTypeRegistry }

func testOpener(t *testing.T) commands.DBOpener {
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	return func() (*gorm.DB, error) { return db, nil }
}

func run(t *testing.T, open commands.DBOpener, args ...string) (string, error) {
	cmd := commands.MigrateCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCmd(t *testing.T) {
	cmd := commands.InitCmd(nil)
	assert.Equal(t, "init", cmd.Use)
	assert.Equal(t, "Initialize migration tracking table in the database", cmd.Short)
}

func TestCreateCmd(t *testing.T) {
	cmd := commands.CreateCmd()
	assert.Equal(t, "create [name]", cmd.Use)
	assert.Equal(t, "Create a new migration file", cmd.Short)

	dir := t.TempDir()
	out, err := run(t, nil, "create", "Add lessee notes", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created migration: "+dir)
	assert.Contains(t, out, "_add_lessee_notes.go")
}

func TestUpCmd(t *testing.T) {
	cmd := commands.UpCmd(nil)
	assert.Equal(t, "up", cmd.Use)
	assert.Equal(t, "Apply all pending migrations", cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
}

func TestDownCmd(t *testing.T) {
	cmd := commands.DownCmd(nil)
	assert.Equal(t, "down", cmd.Use)
	assert.Equal(t, "Revert the last migration", cmd.Short)
}

func TestStatusCmd(t *testing.T) {
	cmd := commands.StatusCmd(nil)
	assert.Equal(t, "status", cmd.Use)
	assert.Equal(t, "Show status of all migrations", cmd.Short)
}

func TestHistoryCmd(t *testing.T) {
	cmd := commands.HistoryCmd(nil)
	assert.Equal(t, "history", cmd.Use)
	assert.Equal(t, "Show migration history", cmd.Short)
}

func TestValidateCmd(t *testing.T) {
	cmd := commands.ValidateCmd(nil)
	assert.Equal(t, "validate", cmd.Use)
	assert.Equal(t, "Validate all migrations", cmd.Short)
}

func TestMigrateLifecycle(t *testing.T) {
	open := testOpener(t)

	out, err := run(t, open, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")

	out, err = run(t, open, "up", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "create_leasing_schema")

	db, _ := open()
	assert.False(t, db.Migrator().HasTable(&models.Owner{}))

	out, err = run(t, open, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully applied migration: create_leasing_schema")
	assert.True(t, db.Migrator().HasTable(&models.Owner{}))

	out, err = run(t, open, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending migrations.")

	out, err = run(t, open, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied")
	assert.NotContains(t, out, "Pending")

	out, err = run(t, open, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "seed_property_types")

	out, err = run(t, open, "down")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully reverted migration")

	out, err = run(t, open, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
}

func TestHistoryCmdEmpty(t *testing.T) {
	out, err := run(t, testOpener(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No migrations have been applied yet.")
}

func TestValidateCmdChecksModels(t *testing.T) {
	open := testOpener(t)

	migration.GlobalModelRegistry = nil
	_, err := run(t, open, "validate")
	assert.Error(t, err)

	migration.GlobalModelRegistry = registry{}
	defer func() { migration.GlobalModelRegistry = nil }()

	out, err := run(t, open, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "All migrations are valid")

	out, err = run(t, open, "validate", "--schema")
	assert.Error(t, err)
	assert.Contains(t, out, "missing table contracts")

	_, err = run(t, open, "up")
	require.NoError(t, err)
	out, err = run(t, open, "validate", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "All migrations are valid")
}
