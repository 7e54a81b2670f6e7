package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/road-signs-bot/internal/chain"
)

var (
	ErrEmptyCatalog     = errors.New("catalog has no signs")
	ErrInvalidCatalog   = errors.New("invalid catalog")
	ErrUnsupportedFile  = errors.New("unsupported catalog file")
	ErrSignNotInCatalog = errors.New("sign not in catalog")
)

// CatalogRepository holds the canonical list of signs every learner is enrolled with.
type CatalogRepository struct {
	entries []chain.CatalogEntry
	byID    map[string]int
}

// NewCatalogRepository loads the catalog from a .json or .xlsx file.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	var (
		entries []chain.CatalogEntry
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = loadJSON(path)
	case ".xlsx":
		entries, err = loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	if err != nil {
		return nil, err
	}

	return NewCatalogFromEntries(entries)
}

// NewCatalogFromEntries validates entries and wraps them in a repository.
func NewCatalogFromEntries(entries []chain.CatalogEntry) (*CatalogRepository, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("%w: entry %d has empty id or answer", ErrInvalidCatalog, i)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, e.ID)
		}
		byID[e.ID] = i
	}

	return &CatalogRepository{entries: entries, byID: byID}, nil
}

// Entries returns a copy of the catalog in enrollment order.
func (r *CatalogRepository) Entries() []chain.CatalogEntry {
	out := make([]chain.CatalogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of signs in the catalog.
func (r *CatalogRepository) Len() int {
	return len(r.entries)
}

// GetByID retrieves a catalog entry by its ID.
func (r *CatalogRepository) GetByID(id string) (chain.CatalogEntry, error) {
	i, ok := r.byID[id]
	if !ok {
		return chain.CatalogEntry{}, fmt.Errorf("%w: %s", ErrSignNotInCatalog, id)
	}
	return r.entries[i], nil
}

func loadJSON(path string) ([]chain.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Signs []chain.CatalogEntry `json:"signs"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog JSON: %w", err)
	}

	return wrapper.Signs, nil
}

// loadXLSX reads the first sheet: column A holds the sign ID, column B the answer.
// The first row is a header.
func loadXLSX(path string) ([]chain.CatalogEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyCatalog
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	var entries []chain.CatalogEntry
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrInvalidCatalog, i+1, len(row))
		}
		entries = append(entries, chain.CatalogEntry{
			ID:     strings.TrimSpace(row[0]),
			Answer: strings.TrimSpace(row[1]),
		})
	}

	return entries, nil
}
