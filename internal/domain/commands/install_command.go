package commands

import (
	"context"
	"errors"
	"fmt"

	units "github.com/docker/go-units"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// progressStep is the download volume between two verbose progress lines.
const progressStep = 4 * 1024 * 1024

// Install is the interface for the install command.
type Install interface {
	Execute(ctx context.Context, settings *entities.Settings, opts InstallOptions) (*entities.Installation, error)
}

// InstallOptions holds runtime options for one installation.
type InstallOptions struct {
	Version string
	Force   bool // download, extract and build again even when present
	Dev     bool // debug build with the development php.ini
	Verbose bool
	Use     bool // switch the active version once built
}

// InstallCommand downloads, extracts and builds one php version.
type InstallCommand struct {
	factory repositories.Factory
}

// NewInstallCommand creates a new InstallCommand.
func NewInstallCommand(factory repositories.Factory) *InstallCommand {
	return &InstallCommand{factory: factory}
}

// Execute installs the requested version. Existing sources are reused and an
// existing build is kept unless opts.Force is set.
func (it *InstallCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts InstallOptions,
) (*entities.Installation, error) {
	version := entities.NormalizeVersion(opts.Version)
	if version == "" {
		return nil, errors.New("a version is required")
	}

	installations, err := it.factory.NewInstallationRepository(settings)
	if err != nil {
		return nil, err
	}
	if layoutErr := installations.EnsureLayout(); layoutErr != nil {
		return nil, layoutErr
	}

	it.checkCatalog(settings, version)

	installation := installations.Get(version)
	if opts.Force && installations.HasSource(installation) {
		logger.Infof("Removing previous sources of %s", version)
		if removeErr := installations.RemoveSource(installation); removeErr != nil {
			return nil, removeErr
		}
	}

	if installations.HasSource(installation) {
		logger.Infof("Sources of %s already present, skipping download", version)
	} else if fetchErr := it.fetch(ctx, settings, installation, opts); fetchErr != nil {
		if removeErr := installations.RemoveSource(installation); removeErr != nil {
			logger.Warnf("Failed to clean up %q: %v", installation.Path, removeErr)
		}
		return nil, fetchErr
	}

	if opts.Force || !installations.IsInstalled(installation) {
		builder := it.factory.NewSourceBuilder(settings)
		buildOpts := entities.BuildOptions{Dev: opts.Dev, Verbose: opts.Verbose}
		if buildErr := builder.Build(ctx, installation, buildOpts); buildErr != nil {
			if removeErr := installations.RemoveDist(installation); removeErr != nil {
				logger.Warnf("Failed to clean up %q: %v", installation.DistDir(), removeErr)
			}
			return nil, fmt.Errorf("failed to build %s: %w", version, buildErr)
		}
		if iniErr := builder.SetupIni(installation, opts.Dev); iniErr != nil {
			return nil, iniErr
		}
	} else {
		logger.Infof("Version %s is already built", version)
	}

	if opts.Use {
		if linkErr := installations.Link(installation); linkErr != nil {
			return nil, linkErr
		}
		logger.Infof("Now using php %s", version)
	}

	return &installation, nil
}

// checkCatalog warns when the version is absent from a non-empty catalog.
// The download URL does not depend on the catalog, so this never fails.
func (it *InstallCommand) checkCatalog(settings *entities.Settings, version string) {
	catalog, err := it.factory.NewCatalogRepository(settings).Load()
	if err != nil || catalog.Len() == 0 {
		return
	}
	if _, found := catalog.Find(version); !found {
		logger.Warnf("Version %s is not in the local catalog, run 'phpmgr sync' to refresh it", version)
	}
}

// fetch downloads the source archive and extracts it into the installation path.
func (it *InstallCommand) fetch(
	ctx context.Context,
	settings *entities.Settings,
	installation entities.Installation,
	opts InstallOptions,
) error {
	session, err := it.factory.NewArchiveRepository(settings).Open(ctx, installation.Version)
	if err != nil {
		return err
	}
	defer session.Close()

	logger.Infof("Downloading %s", session.URL)
	session.OnProgress(newProgressLogger(opts.Verbose))

	archive, err := session.Drain()
	if err != nil {
		return err
	}
	logger.Infof("Downloaded %s", units.HumanSize(float64(len(archive))))

	extractor := it.factory.NewArchiveExtractor(settings)
	result, err := extractor.Extract(ctx, archive, installation.Path, entities.ExtractOptions{
		StripPrefix: settings.ArchivePrefix,
		Verbose:     opts.Verbose,
	})
	if err != nil {
		return err
	}
	logger.Infof("Extracted %d entries into %q", result.Entries, installation.Path)
	return nil
}

// newProgressLogger reports download progress every progressStep bytes when
// verbose, and stays silent otherwise.
func newProgressLogger(verbose bool) entities.ProgressFunc {
	if !verbose {
		return nil
	}

	var next int64 = progressStep
	return func(_, total int64) {
		if total < next {
			return
		}
		for next <= total {
			next += progressStep
		}
		logger.Debugf("Received %s", units.HumanSize(float64(total)))
	}
}
