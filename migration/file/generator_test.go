package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatName(t *testing.T) {
	assert.Equal(t, "add_lessee_notes", FormatName("Add lessee notes"))
	assert.Equal(t, "index_contract_dates", FormatName("index-contract_dates"))
	assert.Equal(t, "", FormatName("  "))
}

func TestGeneratorCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "versions")
	g := NewGenerator(dir)
	g.now = func() time.Time { return time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC) }

	f, err := g.Create("Add lessee notes")
	require.NoError(t, err)
	assert.Equal(t, "20240701093000", f.Version)
	assert.Equal(t, "add_lessee_notes", f.Name)
	assert.Equal(t, filepath.Join(dir, "20240701093000_add_lessee_notes.go"), f.Path)

	content, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "package versions")
	assert.Contains(t, string(content), `Version: "20240701093000"`)
	assert.Contains(t, string(content), `Name:    "add_lessee_notes"`)

	_, err = g.Create("Add lessee notes")
	assert.Error(t, err)

	_, err = g.Create("!!!")
	assert.Error(t, err)
}
