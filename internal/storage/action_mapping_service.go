// Package storage binds the domain models to their backing store.
package storage

import (
	"context"
	"iter"

	"github.com/maruel/actionmap/internal/jsondb"
	"github.com/maruel/actionmap/internal/models"
)

// DefaultTable is the table holding ActionMapping records.
const DefaultTable = "actionMappings"

// ActionMappingService reads ActionMapping records from a table.
//
// Every call scans the whole table again.
type ActionMappingService struct {
	db    *jsondb.Database
	table string
}

// NewActionMappingService creates a new action mapping service.
func NewActionMappingService(db *jsondb.Database, table string) *ActionMappingService {
	if table == "" {
		table = DefaultTable
	}
	return &ActionMappingService{db: db, table: table}
}

// Table returns the name of the table read by the service.
func (s *ActionMappingService) Table() string {
	return s.table
}

// All returns every mapping in store order.
func (s *ActionMappingService) All(ctx context.Context) iter.Seq2[models.ActionMapping, error] {
	return models.Mappings(s.db.Entries(ctx, s.table), s.db.Path())
}

// Find returns the mappings matched by f in store order.
func (s *ActionMappingService) Find(ctx context.Context, f models.Filter) iter.Seq2[models.ActionMapping, error] {
	return models.FilterMappings(s.All(ctx), f)
}

// Get returns the first mapping with codeword c.
func (s *ActionMappingService) Get(ctx context.Context, c models.Codeword) (models.ActionMapping, bool, error) {
	return models.FirstWithCodeword(s.All(ctx), c)
}

// Replace overwrites the table with mappings after validating each of them.
func (s *ActionMappingService) Replace(mappings []models.ActionMapping) error {
	for i := range mappings {
		if err := mappings[i].Validate(); err != nil {
			return &models.IntegrityError{Index: i, Database: s.db.Path(), Err: err}
		}
	}
	return jsondb.WriteTable(s.db.Path(), s.table, mappings)
}

// Count scans the table and returns the number of mappings.
func (s *ActionMappingService) Count(ctx context.Context) (int, error) {
	n := 0
	for _, err := range s.All(ctx) {
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
