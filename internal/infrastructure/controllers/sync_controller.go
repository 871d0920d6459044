package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// SyncController handles the "sync" subcommand.
type SyncController struct {
	command commands.Sync
}

// NewSyncController creates a new SyncController.
func NewSyncController(command commands.Sync) *SyncController {
	return &SyncController{command: command}
}

// GetBind returns the Cobra command metadata for the sync controller.
func (it *SyncController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sync",
		Short: "Fetch the list of php releases",
		Long: `Fetch the tags of the php source repository into the local catalog.

Pages are read newest-first and the scan stops at the first tag already
known. Use --full to walk every page, e.g. after the remote reordered tags.`,
	}
}

// Execute runs an incremental or full catalog sync.
func (it *SyncController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}
	full, _ := cmd.Flags().GetBool("full")

	return runSync(cmd, it.command, settings, full)
}

// AddFlags adds the sync-specific flags to the given Cobra command.
func (it *SyncController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("full", false, "Walk every page instead of stopping at the first known tag")
}

func runSync(cmd *cobra.Command, command commands.Sync, settings *entities.Settings, full bool) error {
	result, err := command.Execute(contextOf(cmd), settings, commands.SyncOptions{
		FullRescan: full,
		Verbose:    isVerbose(cmd),
	})
	if err != nil {
		logger.Errorf("Sync failed: %v", err)
		return err
	}
	logger.Infof("Catalog holds %d tags (%d new, %d pages read)", result.Total, result.Added, result.Pages)
	return nil
}
