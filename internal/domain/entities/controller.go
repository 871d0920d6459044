package entities

import "github.com/spf13/cobra"

// ControllerBind describes how a controller is exposed as a cobra subcommand.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
	// Args validates the positional arguments; nil accepts any.
	Args cobra.PositionalArgs
}

// Controller is a CLI entry point for one command.
type Controller interface {
	GetBind() ControllerBind
	Execute(command *cobra.Command, arguments []string) error
	AddFlags(command *cobra.Command)
}
