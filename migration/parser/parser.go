package parser

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/beesaferoot/myleasing/migration"
)

// ModelParser resolves registered models into GORM schemas so that broken
// struct tags or relations are caught before any migration touches the database.
type ModelParser struct {
	db     *gorm.DB
	models map[string]interface{}
}

func NewModelParser(db *gorm.DB) (*ModelParser, error) {
	if err := migration.ValidateRegistry(); err != nil {
		return nil, err
	}

	p := &ModelParser{
		db:     db,
		models: migration.GlobalModelRegistry.GetModels(),
	}

	if len(p.models) == 0 {
		return nil, fmt.Errorf("no models found in registry")
	}

	return p, nil
}

func (p *ModelParser) Parse() (map[string]*schema.Schema, error) {
	names := make([]string, 0, len(p.models))
	for name := range p.models {
		names = append(names, name)
	}
	sort.Strings(names)

	schemas := make(map[string]*schema.Schema, len(names))
	tables := make(map[string]string, len(names))
	for _, name := range names {
		stmt := &gorm.Statement{DB: p.db}
		if err := stmt.Parse(p.models[name]); err != nil {
			return nil, fmt.Errorf("failed to parse model %s: %w", name, err)
		}
		if stmt.Schema == nil {
			return nil, fmt.Errorf("no schema produced for model %s", name)
		}
		if other, ok := tables[stmt.Schema.Table]; ok {
			return nil, fmt.Errorf("models %s and %s both map to table %s", other, name, stmt.Schema.Table)
		}
		tables[stmt.Schema.Table] = name
		schemas[name] = stmt.Schema
	}
	return schemas, nil
}
