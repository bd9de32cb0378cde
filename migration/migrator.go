package migration

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/internal/logger"
)

// ErrNoAppliedMigrations is returned by Down when nothing has been applied.
var ErrNoAppliedMigrations = errors.New("no migrations to revert")

// Status is the applied state of one known migration.
type Status struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt time.Time
}

type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
	log        logger.Logger
}

// NewMigrator starts from the registered migrations.
func NewMigrator(db *gorm.DB, log logger.Logger) *Migrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{
		db:         db,
		migrations: GetRegisteredMigrations(),
		log:        log.WithFields(logger.Fields{"component": "migrator"}),
	}
}

func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sortMigrations(m.migrations)
}

func (m *Migrator) Migrations() []*Migration {
	out := make([]*Migration, len(m.migrations))
	copy(out, m.migrations)
	return out
}

// Init creates the migration_records table.
func (m *Migrator) Init() error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migration_records table: %w", err)
	}
	return nil
}

func (m *Migrator) records() ([]MigrationRecord, error) {
	if err := m.Init(); err != nil {
		return nil, err
	}
	var records []MigrationRecord
	if err := m.db.Order("applied_at ASC, version ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return records, nil
}

func (m *Migrator) GetAppliedVersions() (map[string]bool, error) {
	records, err := m.records()
	if err != nil {
		return nil, err
	}

	versions := make(map[string]bool, len(records))
	for _, record := range records {
		versions[record.Version] = true
	}
	return versions, nil
}

// Pending lists migrations not yet recorded, in version order.
func (m *Migrator) Pending() ([]*Migration, error) {
	if err := ValidateMigrations(m.migrations); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []*Migration
	for _, mr := range m.migrations {
		if !applied[mr.Version] {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the ones it applied.
func (m *Migrator) Up() ([]*Migration, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	applied := make([]*Migration, 0, len(pending))
	for _, mr := range pending {
		m.log.Info("Applying migration", logger.Fields{"version": mr.Version, "name": mr.Name})

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
			}
			record := MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: time.Now().UTC(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mr.Name, err)
			}
			return nil
		})
		if err != nil {
			m.log.Error("Migration failed", err, logger.Fields{"version": mr.Version})
			return applied, err
		}
		applied = append(applied, mr)
	}
	return applied, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down() (*Migration, error) {
	records, err := m.records()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoAppliedMigrations
	}
	last := records[len(records)-1]

	var target *Migration
	for _, mr := range m.migrations {
		if mr.Version == last.Version {
			target = mr
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("migration for version %s not found", last.Version)
	}

	m.log.Info("Reverting migration", logger.Fields{"version": target.Version, "name": target.Name})
	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
		}
		if err := tx.Delete(&MigrationRecord{}, "version = ?", last.Version).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Status reports every known migration plus any recorded version that is no
// longer registered.
func (m *Migrator) Status() ([]Status, error) {
	records, err := m.records()
	if err != nil {
		return nil, err
	}
	byVersion := make(map[string]MigrationRecord, len(records))
	for _, r := range records {
		byVersion[r.Version] = r
	}

	out := make([]Status, 0, len(m.migrations))
	for _, mr := range m.migrations {
		s := Status{Version: mr.Version, Name: mr.Name}
		if r, ok := byVersion[mr.Version]; ok {
			s.Applied = true
			s.AppliedAt = r.AppliedAt
			delete(byVersion, mr.Version)
		}
		out = append(out, s)
	}
	for _, r := range records {
		if _, orphan := byVersion[r.Version]; orphan {
			out = append(out, Status{Version: r.Version, Name: r.Name, Applied: true, AppliedAt: r.AppliedAt})
		}
	}
	return out, nil
}

// History returns applied migrations, newest first.
func (m *Migrator) History() ([]MigrationRecord, error) {
	records, err := m.records()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
