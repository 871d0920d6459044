package commands

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// minPageEntries is the smallest page size trusted as real listing content.
// A page with fewer entries is treated as the end of the listing.
const minPageEntries = 2

// Sync is the interface for the sync command.
type Sync interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SyncOptions) (*SyncResult, error)
}

// SyncOptions holds runtime options for one synchronization.
type SyncOptions struct {
	// FullRescan walks every page instead of stopping at the first known tag.
	FullRescan bool
	Verbose    bool
}

// SyncResult reports what one synchronization changed.
type SyncResult struct {
	Added int // new tags matching the tag prefix
	Total int // catalog size after the sync
	Pages int // listing pages read
}

// SyncCommand mirrors the remote tag listing into the local catalog.
//
// The listing is assumed to be newest-first and stable across requests: the
// first tag already present in the catalog means every later tag is known too,
// and the scan stops there. When that assumption cannot be trusted, use
// SyncOptions.FullRescan.
type SyncCommand struct {
	factory repositories.Factory
}

// NewSyncCommand creates a new SyncCommand.
func NewSyncCommand(factory repositories.Factory) *SyncCommand {
	return &SyncCommand{factory: factory}
}

// Execute loads the catalog, merges new pages into it and persists the result.
// Nothing is written unless every page request succeeded.
func (it *SyncCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SyncOptions,
) (*SyncResult, error) {
	tagRepository, err := it.factory.NewTagRepository(settings)
	if err != nil {
		return nil, err
	}
	catalogRepository := it.factory.NewCatalogRepository(settings)

	catalog, err := catalogRepository.Load()
	if err != nil {
		return nil, err
	}
	known := catalog.Len()
	logger.Debugf("Loaded %d known tags", known)

	result, err := it.merge(ctx, tagRepository, catalog, settings.TagPrefix, opts)
	if err != nil {
		return nil, err
	}

	if removed := catalog.Retain(settings.TagPrefix); removed > 0 {
		logger.Debugf("Dropped %d tags without the %q prefix", removed, settings.TagPrefix)
	}

	if saveErr := catalogRepository.Save(catalog); saveErr != nil {
		return nil, saveErr
	}

	result.Total = catalog.Len()
	logger.Infof("Catalog synchronized: %d new tags, %d total", result.Added, result.Total)
	return result, nil
}

// merge pages through the listing and inserts every tag into catalog until the
// listing runs out or, unless rescanning, a known tag shows up.
func (it *SyncCommand) merge(
	ctx context.Context,
	tagRepository repositories.TagRepository,
	catalog *entities.Catalog,
	prefix string,
	opts SyncOptions,
) (*SyncResult, error) {
	result := &SyncResult{}
	progress := logger.Debugf
	if opts.Verbose {
		progress = logger.Infof
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress("Fetching tags page %d", page)
		tags, err := tagRepository.ListTags(ctx, page)
		if errors.Is(err, entities.ErrNoMorePages) {
			logger.Debugf("Page %d is past the end of the listing", page)
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		result.Pages++

		if len(tags) < minPageEntries {
			logger.Debugf("Page %d has %d tags, treating it as the end of the listing", page, len(tags))
			return result, nil
		}

		for _, tag := range tags {
			if catalog.Insert(tag) {
				if tag.HasPrefix(prefix) {
					result.Added++
				}
				continue
			}
			if !opts.FullRescan {
				logger.Debugf("Reached known tag %q on page %d", tag.Name, page)
				return result, nil
			}
		}
	}
}
