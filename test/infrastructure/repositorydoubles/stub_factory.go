//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// StubFactory hands out the configured doubles regardless of the settings.
// Nil fields fall back to empty doubles.
type StubFactory struct {
	Tags          repositories.TagRepository
	TagsErr       error
	Catalog       repositories.CatalogRepository
	Archives      repositories.ArchiveRepository
	Extractor     repositories.ArchiveExtractor
	Builder       repositories.SourceBuilder
	Installations repositories.InstallationRepository
	InstallErr    error
}

var _ repositories.Factory = (*StubFactory)(nil)

func (f *StubFactory) NewTagRepository(_ *entities.Settings) (repositories.TagRepository, error) {
	if f.TagsErr != nil {
		return nil, f.TagsErr
	}
	if f.Tags == nil {
		f.Tags = &StubTagRepository{}
	}
	return f.Tags, nil
}

func (f *StubFactory) NewCatalogRepository(_ *entities.Settings) repositories.CatalogRepository {
	if f.Catalog == nil {
		f.Catalog = &InMemoryCatalogRepository{}
	}
	return f.Catalog
}

func (f *StubFactory) NewArchiveRepository(_ *entities.Settings) repositories.ArchiveRepository {
	if f.Archives == nil {
		f.Archives = &StubArchiveRepository{}
	}
	return f.Archives
}

func (f *StubFactory) NewArchiveExtractor(_ *entities.Settings) repositories.ArchiveExtractor {
	if f.Extractor == nil {
		f.Extractor = &SpyArchiveExtractor{}
	}
	return f.Extractor
}

func (f *StubFactory) NewSourceBuilder(_ *entities.Settings) repositories.SourceBuilder {
	if f.Builder == nil {
		f.Builder = &SpySourceBuilder{}
	}
	return f.Builder
}

func (f *StubFactory) NewInstallationRepository(
	settings *entities.Settings,
) (repositories.InstallationRepository, error) {
	if f.InstallErr != nil {
		return nil, f.InstallErr
	}
	if f.Installations == nil {
		f.Installations = NewStubInstallationRepository(settings.WorkDir)
	}
	return f.Installations, nil
}
