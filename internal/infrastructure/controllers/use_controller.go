package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// UseController handles the "use" subcommand.
type UseController struct {
	command commands.Use
}

// NewUseController creates a new UseController.
func NewUseController(command commands.Use) *UseController {
	return &UseController{command: command}
}

// GetBind returns the Cobra command metadata for the use controller.
func (it *UseController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "use <version>",
		Short: "Switch the active php version",
		Long: `Point the bin link of the work directory at a built version.
Add that link to PATH once to always run the active version.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute activates the version named by the first argument.
func (it *UseController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one version, got %d arguments", len(args))
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}

	if useErr := it.command.Execute(contextOf(cmd), settings, args[0]); useErr != nil {
		logger.Errorf("Use failed: %v", useErr)
		return useErr
	}
	return nil
}

// AddFlags adds no flags: use only takes the version.
func (it *UseController) AddFlags(_ *cobra.Command) {}
