package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/models"
	"github.com/beesaferoot/myleasing/migration"
)

type staticRegistry map[string]interface{}

func (r staticRegistry) GetModels() map[string]interface{} { return r }

type brokenModel struct {
	ID    uint          `gorm:"primaryKey"`
	Owner *models.Owner `gorm:"foreignKey:NoSuchField"`
}

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewModelParserRequiresRegistry(t *testing.T) {
	migration.GlobalModelRegistry = nil

	_, err := NewModelParser(openDB(t))
	assert.Error(t, err)
}

func TestNewModelParserRejectsEmptyRegistry(t *testing.T) {
	migration.GlobalModelRegistry = staticRegistry{}
	defer func() { migration.GlobalModelRegistry = nil }()

	_, err := NewModelParser(openDB(t))
	assert.Error(t, err)
}

func TestParseLeasingModels(t *testing.T) {
	migration.GlobalModelRegistry = staticRegistry(models.ModelTypeRegistry)
	defer func() { migration.GlobalModelRegistry = nil }()

	p, err := NewModelParser(openDB(t))
	require.NoError(t, err)

	schemas, err := p.Parse()
	require.NoError(t, err)
	assert.Len(t, schemas, len(models.ModelTypeRegistry))
	assert.Equal(t, "properties", schemas["Property"].Table)
	assert.Equal(t, "property_images", schemas["PropertyImage"].Table)
}

func TestParseReportsBrokenModel(t *testing.T) {
	migration.GlobalModelRegistry = staticRegistry{"Broken": &brokenModel{}}
	defer func() { migration.GlobalModelRegistry = nil }()

	p, err := NewModelParser(openDB(t))
	require.NoError(t, err)

	_, err = p.Parse()
	assert.ErrorContains(t, err, "Broken")
}

func TestDriftReportsMissingSchema(t *testing.T) {
	migration.GlobalModelRegistry = staticRegistry(models.ModelTypeRegistry)
	defer func() { migration.GlobalModelRegistry = nil }()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "drift.db")), &gorm.Config{})
	require.NoError(t, err)
	p, err := NewModelParser(db)
	require.NoError(t, err)

	drift, err := p.Drift()
	require.NoError(t, err)
	assert.Contains(t, drift, "missing table properties (model Property)")

	require.NoError(t, db.AutoMigrate(&models.PropertyType{}))
	require.NoError(t, db.Exec("CREATE TABLE owners (id integer primary key)").Error)

	drift, err = p.Drift()
	require.NoError(t, err)
	assert.NotContains(t, drift, "missing table property_types (model PropertyType)")
	assert.Contains(t, drift, "missing column owners.user_id")
}
