package commands

import (
	"context"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) ([]ListedVersion, error)
}

// ListOptions selects which versions are listed.
type ListOptions struct {
	Installed bool // list local installations instead of the catalog
	All       bool // every catalog tag, including unparseable names
	Alpha     bool
	Beta      bool
	RC        bool
}

// ListedVersion is one line of the listing.
type ListedVersion struct {
	Version   string
	Installed bool
	Active    bool
}

// ListCommand lists catalog or installed versions, newest-first.
type ListCommand struct {
	factory repositories.Factory
}

// NewListCommand creates a new ListCommand.
func NewListCommand(factory repositories.Factory) *ListCommand {
	return &ListCommand{factory: factory}
}

// Execute returns the versions selected by opts.
func (it *ListCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts ListOptions,
) ([]ListedVersion, error) {
	installations, err := it.factory.NewInstallationRepository(settings)
	if err != nil {
		return nil, err
	}

	if opts.Installed {
		return listInstalled(installations)
	}

	catalog, err := it.factory.NewCatalogRepository(settings).Load()
	if err != nil {
		return nil, err
	}

	listed := make([]ListedVersion, 0, catalog.Len())
	for _, tag := range catalog.Tags() {
		if !selectTag(tag, opts) {
			continue
		}
		installation := installations.Get(tag.Version())
		listed = append(listed, ListedVersion{
			Version:   installation.Version,
			Installed: installations.IsInstalled(installation),
			Active:    installations.IsActive(installation),
		})
	}
	return listed, nil
}

func listInstalled(installations repositories.InstallationRepository) ([]ListedVersion, error) {
	found, err := installations.List()
	if err != nil {
		return nil, err
	}

	listed := make([]ListedVersion, 0, len(found))
	for _, installation := range found {
		listed = append(listed, ListedVersion{
			Version:   installation.Version,
			Installed: installations.IsInstalled(installation),
			Active:    installations.IsActive(installation),
		})
	}
	return listed, nil
}

// selectTag keeps stable releases plus the requested pre-release kinds.
func selectTag(tag entities.Tag, opts ListOptions) bool {
	switch {
	case opts.All:
		return true
	case tag.Semver() == "":
		return false
	case tag.IsAlpha():
		return opts.Alpha
	case tag.IsBeta():
		return opts.Beta
	case tag.IsRC():
		return opts.RC
	default:
		return true
	}
}
