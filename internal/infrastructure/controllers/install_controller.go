package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// InstallController handles the "install" subcommand.
type InstallController struct {
	command commands.Install
}

// NewInstallController creates a new InstallController.
func NewInstallController(command commands.Install) *InstallController {
	return &InstallController{command: command}
}

// GetBind returns the Cobra command metadata for the install controller.
func (it *InstallController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "install <version>",
		Short: "Download, extract and build a php version",
		Long: `Download the source archive of a php version, extract it below the
work directory and build it with configure and make.

Sources already extracted are reused and a built version is left alone,
unless --force is given. With --yes the new version becomes the active one.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute installs the version named by the first argument.
func (it *InstallController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one version, got %d arguments", len(args))
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	dev, _ := cmd.Flags().GetBool("dev")
	use, _ := cmd.Flags().GetBool("yes")

	installation, err := it.command.Execute(contextOf(cmd), settings, commands.InstallOptions{
		Version: args[0],
		Force:   force,
		Dev:     dev,
		Verbose: isVerbose(cmd),
		Use:     use,
	})
	if err != nil {
		logger.Errorf("Install failed: %v", err)
		return err
	}

	logger.Infof("php %s is installed in %q", installation.Version, installation.DistDir())
	if !use {
		logger.Infof("Run 'phpmgr use %s' to activate it", installation.Version)
	}
	return nil
}

// AddFlags adds the install-specific flags to the given Cobra command.
func (it *InstallController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Download and build again even if already present")
	cmd.Flags().Bool("dev", false, "Build with debug symbols and the development php.ini")
	cmd.Flags().BoolP("yes", "y", false, "Use the version once installed")
}
