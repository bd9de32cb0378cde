package parser

import (
	"fmt"
	"sort"
)

// Drift lists the tables and columns the registered models expect but the
// connected database lacks. An empty result means the schema is current.
func (p *ModelParser) Drift() ([]string, error) {
	schemas, err := p.Parse()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	m := p.db.Migrator()
	var drift []string
	for _, name := range names {
		s := schemas[name]
		if !m.HasTable(s.Table) {
			drift = append(drift, fmt.Sprintf("missing table %s (model %s)", s.Table, name))
			continue
		}

		columns, err := m.ColumnTypes(s.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", s.Table, err)
		}
		existing := make(map[string]bool, len(columns))
		for _, c := range columns {
			existing[c.Name()] = true
		}
		for _, column := range s.DBNames {
			if f := s.FieldsByDBName[column]; f != nil && f.IgnoreMigration {
				continue
			}
			if !existing[column] {
				drift = append(drift, fmt.Sprintf("missing column %s.%s", s.Table, column))
			}
		}
	}
	return drift, nil
}
