package catalog

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	jsoniter "github.com/json-iterator/go"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

//nolint:gochecknoglobals // stateless codec
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// FileCatalogRepository stores the catalog as a JSON array of tags in a single file.
type FileCatalogRepository struct {
	fs   billy.Filesystem
	name string
}

// NewFileCatalogRepository creates a catalog store for the file name inside fs.
func NewFileCatalogRepository(fs billy.Filesystem, name string) repositories.CatalogRepository {
	return &FileCatalogRepository{fs: fs, name: name}
}

// Load reads the whole catalog. A missing file is a first run; an unreadable
// or corrupt file is logged and treated the same, so the next sync refetches.
func (r *FileCatalogRepository) Load() (*entities.Catalog, error) {
	data, err := util.ReadFile(r.fs, r.name)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("No catalog at %q yet", r.name)
		return entities.NewCatalog(), nil
	}
	if err != nil {
		logger.Warnf("Failed to read catalog %q, starting from an empty one: %v", r.name, err)
		return entities.NewCatalog(), nil
	}

	var tags []entities.Tag
	if unmarshalErr := codec.Unmarshal(data, &tags); unmarshalErr != nil {
		logger.Warnf("Catalog %q is corrupt, starting from an empty one: %v", r.name, unmarshalErr)
		return entities.NewCatalog(), nil
	}
	return entities.NewCatalog(tags...), nil
}

// Save replaces the file with the encoded catalog. The content is written to
// a temporary file next to it first, so a failed write leaves the old catalog.
func (r *FileCatalogRepository) Save(catalog *entities.Catalog) error {
	tags := catalog.Tags()
	if tags == nil {
		tags = []entities.Tag{}
	}
	data, err := codec.Marshal(tags)
	if err != nil {
		return entities.NewOperationError("save catalog", r.name, entities.ErrStorage, err)
	}

	tmp, err := r.fs.TempFile(filepath.Dir(r.name), filepath.Base(r.name)+".tmp-")
	if err != nil {
		return entities.NewOperationError("save catalog", r.name, entities.ErrStorage, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr = errors.Join(writeErr, closeErr); writeErr != nil {
		_ = r.fs.Remove(tmpName)
		return entities.NewOperationError("save catalog", r.name, entities.ErrStorage, writeErr)
	}

	if renameErr := r.fs.Rename(tmpName, r.name); renameErr != nil {
		_ = r.fs.Remove(tmpName)
		return entities.NewOperationError("save catalog", r.name, entities.ErrStorage, renameErr)
	}

	logger.Debugf("Saved %d tags to %q", len(tags), r.name)
	return nil
}
