package repositories

import "github.com/rios0rios0/phpmgr/internal/domain/entities"

// CatalogRepository persists the local mirror of known tags.
// Load never fails on an absent or corrupt store; it returns an empty catalog.
type CatalogRepository interface {
	Load() (*entities.Catalog, error)
	Save(catalog *entities.Catalog) error
}
