package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// Use is the interface for the use command.
type Use interface {
	Execute(ctx context.Context, settings *entities.Settings, version string) error
}

// UseCommand switches the active version.
type UseCommand struct {
	factory repositories.Factory
}

// NewUseCommand creates a new UseCommand.
func NewUseCommand(factory repositories.Factory) *UseCommand {
	return &UseCommand{factory: factory}
}

// Execute points the bin link at the given version, which must be built.
func (it *UseCommand) Execute(_ context.Context, settings *entities.Settings, version string) error {
	installations, err := it.factory.NewInstallationRepository(settings)
	if err != nil {
		return err
	}

	installation := installations.Get(version)
	if !installations.IsInstalled(installation) {
		return entities.NewOperationError("use", installation.Version, entities.ErrNotInstalled, nil)
	}

	if linkErr := installations.Link(installation); linkErr != nil {
		return linkErr
	}
	logger.Infof("Now using php %s", installation.Version)
	return nil
}
