package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

func TestNewCatalogRepositoryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signs.json")
	data := `{"signs":[{"id":"stop.svg","answer":"stop"},{"id":"yield.svg","answer":"yield"}]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	repo, err := NewCatalogRepository(path)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, []chain.CatalogEntry{
		{ID: "stop.svg", Answer: "stop"},
		{ID: "yield.svg", Answer: "yield"},
	}, repo.Entries())

	entry, err := repo.GetByID("yield.svg")
	require.NoError(t, err)
	assert.Equal(t, "yield", entry.Answer)

	_, err = repo.GetByID("missing.svg")
	assert.ErrorIs(t, err, ErrSignNotInCatalog)
}

func TestNewCatalogRepositoryShippedCatalog(t *testing.T) {
	repo, err := NewCatalogRepository(filepath.Join("..", "..", "assets", "data", "signs.json"))
	require.NoError(t, err)

	assert.Equal(t, 10, repo.Len())
	assert.Equal(t, "stop", repo.Entries()[0].Answer)
}

func TestNewCatalogRepositoryXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{
		{"sign", "answer"},
		{"stop.svg", "stop"},
		{"deer.svg", " deer crossing "},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := NewCatalogRepository(path)
	require.NoError(t, err)

	assert.Equal(t, []chain.CatalogEntry{
		{ID: "stop.svg", Answer: "stop"},
		{ID: "deer.svg", Answer: "deer crossing"},
	}, repo.Entries())
}

func TestNewCatalogFromEntriesValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []chain.CatalogEntry
		wantErr error
	}{
		{name: "empty", entries: nil, wantErr: ErrEmptyCatalog},
		{
			name:    "blank answer",
			entries: []chain.CatalogEntry{{ID: "a", Answer: " "}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name:    "duplicate id",
			entries: []chain.CatalogEntry{{ID: "a", Answer: "x"}, {ID: "a", Answer: "y"}},
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalogFromEntries(tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCatalogRepositoryUnsupported(t *testing.T) {
	_, err := NewCatalogRepository("signs.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
