//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// InMemoryCatalogRepository keeps the persisted catalog in memory.
// Load and Save copy, so callers never share a catalog with the store.
type InMemoryCatalogRepository struct {
	Stored  *entities.Catalog
	LoadErr error
	SaveErr error

	SaveCount int
}

var _ repositories.CatalogRepository = (*InMemoryCatalogRepository)(nil)

func (r *InMemoryCatalogRepository) Load() (*entities.Catalog, error) {
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	if r.Stored == nil {
		return entities.NewCatalog(), nil
	}
	return entities.NewCatalog(r.Stored.Tags()...), nil
}

func (r *InMemoryCatalogRepository) Save(catalog *entities.Catalog) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.SaveCount++
	r.Stored = entities.NewCatalog(catalog.Tags()...)
	return nil
}
