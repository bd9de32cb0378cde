package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// VersionFormat is the layout of migration version numbers.
const VersionFormat = "20060102150405"

// VersionFile is a scaffolded migration source file.
type VersionFile struct {
	Path    string
	Version string
	Name    string
}

// Generator writes new migration files into the versions package directory.
type Generator struct {
	directory string
	now       func() time.Time
}

func NewGenerator(directory string) *Generator {
	return &Generator{directory: directory, now: time.Now}
}

// FormatName turns "Add lessee notes" into "add_lessee_notes".
func FormatName(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// Create writes a migration skeleton registered from an init function, in
// the same shape as the existing versions.
func (g *Generator) Create(name string) (*VersionFile, error) {
	formatted := FormatName(name)
	if formatted == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(g.directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := g.now().UTC().Format(VersionFormat)
	path := filepath.Join(g.directory, fmt.Sprintf("%s_%s.go", version, formatted))
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("migration file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	content := fmt.Sprintf(`package versions

import (
	"gorm.io/gorm"

	"github.com/beesaferoot/myleasing/migration"
)

func init() {
	migration.RegisterMigration(&migration.Migration{
		Version: %q,
		Name:    %q,
		Up: func(tx *gorm.DB) error {
			return nil
		},
		Down: func(tx *gorm.DB) error {
			return nil
		},
	})
}
`, version, formatted)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write migration file: %w", err)
	}
	return &VersionFile{Path: path, Version: version, Name: formatted}, nil
}
