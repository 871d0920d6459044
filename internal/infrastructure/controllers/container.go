package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []interface{}{
		NewSyncController,
		NewInstallController,
		NewListController,
		NewUseController,
		NewRemoveController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	syncController *SyncController,
	installController *InstallController,
	listController *ListController,
	useController *UseController,
	removeController *RemoveController,
) *[]entities.Controller {
	return &[]entities.Controller{
		syncController,
		installController,
		listController,
		useController,
		removeController,
	}
}
