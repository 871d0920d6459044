package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
	"github.com/rios0rios0/phpmgr/internal/domain/repositories"
)

// Remove is the interface for the remove command.
type Remove interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RemoveOptions) error
}

// RemoveOptions holds runtime options for a removal.
type RemoveOptions struct {
	Version   string
	Confirmed bool
}

// RemoveCommand deletes an installed version.
type RemoveCommand struct {
	factory repositories.Factory
}

// NewRemoveCommand creates a new RemoveCommand.
func NewRemoveCommand(factory repositories.Factory) *RemoveCommand {
	return &RemoveCommand{factory: factory}
}

// Execute removes the version tree. The active link is dropped when it
// pointed at the removed version.
func (it *RemoveCommand) Execute(_ context.Context, settings *entities.Settings, opts RemoveOptions) error {
	installations, err := it.factory.NewInstallationRepository(settings)
	if err != nil {
		return err
	}

	installation := installations.Get(opts.Version)
	if !installations.HasSource(installation) && !installations.IsInstalled(installation) {
		return entities.NewOperationError("remove", installation.Version, entities.ErrNotInstalled, nil)
	}
	if !opts.Confirmed {
		return entities.NewOperationError("remove", installation.Version, entities.ErrCanceled, nil)
	}

	if removeErr := installations.Remove(installation); removeErr != nil {
		return removeErr
	}
	logger.Infof("Removed php %s", installation.Version)
	return nil
}
