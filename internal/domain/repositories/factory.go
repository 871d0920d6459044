package repositories

import "github.com/rios0rios0/phpmgr/internal/domain/entities"

// Factory builds settings-bound repositories. Settings are only known once
// the command line is parsed, so repositories are created per invocation.
type Factory interface {
	NewTagRepository(settings *entities.Settings) (TagRepository, error)
	NewCatalogRepository(settings *entities.Settings) CatalogRepository
	NewArchiveRepository(settings *entities.Settings) ArchiveRepository
	NewArchiveExtractor(settings *entities.Settings) ArchiveExtractor
	NewSourceBuilder(settings *entities.Settings) SourceBuilder
	NewInstallationRepository(settings *entities.Settings) (InstallationRepository, error)
}
