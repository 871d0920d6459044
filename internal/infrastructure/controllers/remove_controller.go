package controllers

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// RemoveController handles the "remove" subcommand.
type RemoveController struct {
	command commands.Remove
}

// NewRemoveController creates a new RemoveController.
func NewRemoveController(command commands.Remove) *RemoveController {
	return &RemoveController{command: command}
}

// GetBind returns the Cobra command metadata for the remove controller.
func (it *RemoveController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "remove <version>",
		Short: "Delete an installed php version",
		Long: `Delete the sources and the build of a php version. The bin link is
dropped too when it pointed at that version. Requires --yes.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute removes the version named by the first argument.
func (it *RemoveController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one version, got %d arguments", len(args))
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}
	confirmed, _ := cmd.Flags().GetBool("yes")

	removeErr := it.command.Execute(contextOf(cmd), settings, commands.RemoveOptions{
		Version:   args[0],
		Confirmed: confirmed,
	})
	if errors.Is(removeErr, entities.ErrCanceled) {
		logger.Warnf("Not removing %s without --yes", args[0])
		return removeErr
	}
	if removeErr != nil {
		logger.Errorf("Remove failed: %v", removeErr)
		return removeErr
	}
	return nil
}

// AddFlags adds the remove-specific flags to the given Cobra command.
func (it *RemoveController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Confirm the removal")
}
