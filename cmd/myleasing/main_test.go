package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/beesaferoot/myleasing/internal/auth"
	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
)

func TestCreateManagerCmd(t *testing.T) {
	auth.PasswordCost = bcrypt.MinCost
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	_, err = migration.NewMigrator(db, nil).Up()
	require.NoError(t, err)

	var opened *gorm.DB
	cmd := createManagerCmd(func() (*gorm.DB, error) {
		var err error
		opened, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
		return opened, err
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--email", "Admin@Leasing.test",
		"--password", "123456",
		"--first-name", "Juan",
		"--last-name", "Zuluaga",
	})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "admin@leasing.test")

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@leasing.test").First(&user).Error)
	assert.Equal(t, models.RoleManager, user.Role)

	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "connection must be released")
}

func TestCreateManagerCmdRejectsShortPassword(t *testing.T) {
	cmd := createManagerCmd(func() (*gorm.DB, error) {
		t.Fatal("database must not be opened")
		return nil, nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--email", "a@b.test", "--password", "123", "--first-name", "A", "--last-name", "B"})
	assert.Error(t, cmd.Execute())
}
