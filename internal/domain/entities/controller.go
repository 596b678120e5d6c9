package entities

import "github.com/spf13/cobra"

// ControllerBind carries the Cobra metadata a controller is mounted with.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is a CLI entry point.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, arguments []string)
}
