package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/labelsheet/internal/model"
)

// ─── Layout File Tests ─────────────────────────────────────

func TestSaveAndLoadPageConfig(t *testing.T) {
	for _, name := range []string{"sheet.yaml", "sheet.yml", "sheet.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := model.DefaultPageConfig()
			cfg.StartRow, cfg.StartColumn = 2, 1
			cfg.UsedPositions = []model.Position{{Row: 0, Col: 0}, {Row: 4, Col: 2}}
			cfg.Code = model.CodeQR

			require.NoError(t, SavePageConfig(path, cfg))
			loaded, err := LoadPageConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPageConfig_YAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avery.yaml")
	content := `page_size: Letter
page_width: 215.9
page_height: 279.4
label_width: 66.7
label_height: 25.4
labels_per_row: 3
labels_per_column: 10
used_positions:
  - {row: 0, col: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadPageConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Letter", cfg.PageSize)
	assert.Equal(t, 66.7, cfg.LabelWidth)
	assert.Equal(t, []model.Position{{Row: 0, Col: 1}}, cfg.UsedPositions)
	assert.Equal(t, 12.0, cfg.FontSize)
	assert.Equal(t, "Arial", cfg.FontFamily)
}

func TestLoadPageConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"label_width":0,"start_row":99}`), 0644))

	cfg, err := LoadPageConfig(path)
	require.ErrorIs(t, err, ErrInvalidLayout)
	assert.Contains(t, err.Error(), "Label width must be greater than 0")
	assert.Contains(t, err.Error(), "Start row 99 is outside the grid")
	assert.Equal(t, 99, cfg.StartRow)
}

func TestLoadPageConfig_ParseErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPageConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("label_width: [1, 2"), 0644))
	_, err = LoadPageConfig(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidLayout)
}
