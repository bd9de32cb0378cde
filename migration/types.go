package migration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Migration is one versioned, reversible schema change. Versions sort
// lexically, so use a timestamp such as 20240601120000.
type Migration struct {
	Version   string
	Name      string
	CreatedAt time.Time
	Up        func(*gorm.DB) error
	Down      func(*gorm.DB) error
}

// MigrationRecord marks a version as applied. Stored in migration_records.
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey;size:32"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

var (
	globalMigrations = make([]*Migration, 0)
	registryMutex    sync.RWMutex
)

// RegisterMigration adds a migration to the process-wide registry. Packages
// holding migrations call it from init.
func RegisterMigration(migration *Migration) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = append(globalMigrations, migration)
}

// GetRegisteredMigrations returns a copy of the registry sorted by version.
func GetRegisteredMigrations() []*Migration {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	migrations := make([]*Migration, len(globalMigrations))
	copy(migrations, globalMigrations)
	sortMigrations(migrations)
	return migrations
}

func ResetMigrations() {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = make([]*Migration, 0)
}

func sortMigrations(migrations []*Migration) {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}

// ValidateMigrations checks that every migration has a version, a name and
// both directions, and that no version is registered twice.
func ValidateMigrations(migrations []*Migration) error {
	seen := make(map[string]string, len(migrations))
	for _, m := range migrations {
		if m == nil {
			return fmt.Errorf("nil migration registered")
		}
		if m.Version == "" {
			return fmt.Errorf("migration %q has no version", m.Name)
		}
		if m.Name == "" {
			return fmt.Errorf("migration %s has no name", m.Version)
		}
		if m.Up == nil || m.Down == nil {
			return fmt.Errorf("migration %s (%s) must define both Up and Down", m.Version, m.Name)
		}
		if other, ok := seen[m.Version]; ok {
			return fmt.Errorf("duplicate migration version %s: %s and %s", m.Version, other, m.Name)
		}
		seen[m.Version] = m.Name
	}
	return nil
}

// ModelRegistry exposes the application's models by name.
type ModelRegistry interface {
	GetModels() map[string]interface{}
}

// GlobalModelRegistry is set by the binary that owns the models.
var GlobalModelRegistry ModelRegistry

func ValidateRegistry() error {
	if GlobalModelRegistry == nil {
		return fmt.Errorf("no model registry provided, set migration.GlobalModelRegistry before running migrations")
	}
	return nil
}
