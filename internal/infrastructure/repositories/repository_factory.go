package repositories

import (
	"net/http"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	domainRepos "github.com/rios0rios0/phpmgr/internal/domain/repositories"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/archive"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/builder"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/catalog"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/extract"
	ghRepo "github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/github"
	"github.com/rios0rios0/phpmgr/internal/infrastructure/repositories/installation"
)

const (
	apiTimeout  = 30 * time.Second
	catalogFile = "tags.json"
)

// RepositoryFactory creates the host-backed repositories for one set of settings.
type RepositoryFactory struct {
	apiClient      *http.Client
	downloadClient *http.Client
}

var _ domainRepos.Factory = (*RepositoryFactory)(nil)

// NewRepositoryFactory creates a factory with one client for the tag API and
// one for archive downloads, which may take minutes.
func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		apiClient:      &http.Client{Timeout: apiTimeout},
		downloadClient: archive.NewHTTPClient(archive.DefaultHeaderTimeout),
	}
}

func (f *RepositoryFactory) NewTagRepository(settings *entities.Settings) (domainRepos.TagRepository, error) {
	return ghRepo.NewGitHubTagRepository(settings, f.apiClient)
}

// NewCatalogRepository stores the catalog as tags.json inside the work dir.
func (f *RepositoryFactory) NewCatalogRepository(settings *entities.Settings) domainRepos.CatalogRepository {
	return catalog.NewFileCatalogRepository(osfs.New(settings.WorkDir), catalogFile)
}

func (f *RepositoryFactory) NewArchiveRepository(settings *entities.Settings) domainRepos.ArchiveRepository {
	return archive.NewHTTPArchiveRepository(settings, f.downloadClient)
}

func (f *RepositoryFactory) NewArchiveExtractor(_ *entities.Settings) domainRepos.ArchiveExtractor {
	return extract.NewTarGzExtractor()
}

func (f *RepositoryFactory) NewSourceBuilder(settings *entities.Settings) domainRepos.SourceBuilder {
	return builder.NewExecSourceBuilder(settings)
}

func (f *RepositoryFactory) NewInstallationRepository(
	settings *entities.Settings,
) (domainRepos.InstallationRepository, error) {
	return installation.NewBillyInstallationRepository(settings)
}
