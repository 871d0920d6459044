package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/phpmgr/internal/domain/commands"
	"github.com/rios0rios0/phpmgr/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
	sync    commands.Sync
}

// NewListController creates a new ListController.
func NewListController(command commands.List, sync commands.Sync) *ListController {
	return &ListController{command: command, sync: sync}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List available or installed php versions",
		Long: `List the php versions of the local catalog, newest first.

Only stable releases are shown unless --alpha, --beta, --rc or --all is
given. --installed lists the versions below the work directory instead,
and --fetch syncs the catalog before listing.`,
	}
}

// Execute prints one version per line, marking installed and active ones.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}

	opts := commands.ListOptions{}
	opts.Installed, _ = cmd.Flags().GetBool("installed")
	opts.All, _ = cmd.Flags().GetBool("all")
	opts.Alpha, _ = cmd.Flags().GetBool("alpha")
	opts.Beta, _ = cmd.Flags().GetBool("beta")
	opts.RC, _ = cmd.Flags().GetBool("rc")

	if fetch, _ := cmd.Flags().GetBool("fetch"); fetch {
		if syncErr := runSync(cmd, it.sync, settings, false); syncErr != nil {
			return syncErr
		}
	}

	listed, err := it.command.Execute(contextOf(cmd), settings, opts)
	if err != nil {
		logger.Errorf("List failed: %v", err)
		return err
	}
	if len(listed) == 0 {
		if opts.Installed {
			logger.Info("No version is installed yet")
		} else {
			logger.Info("The catalog is empty, run 'phpmgr sync' first")
		}
		return nil
	}

	out := cmd.OutOrStdout()
	for _, item := range listed {
		marker := " "
		if item.Active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s", marker, item.Version)
		if item.Installed {
			line += " (installed)"
		}
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}

// AddFlags adds the list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("installed", "i", false, "List the versions below the work directory")
	cmd.Flags().BoolP("all", "a", false, "List every tag, including pre-releases")
	cmd.Flags().Bool("alpha", false, "Include alpha releases")
	cmd.Flags().Bool("beta", false, "Include beta releases")
	cmd.Flags().Bool("rc", false, "Include release candidates")
	cmd.Flags().Bool("fetch", false, "Sync the catalog before listing")
}
