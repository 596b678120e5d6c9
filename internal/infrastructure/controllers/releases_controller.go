package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// ReleasesController handles the "releases" subcommand.
type ReleasesController struct {
	command commands.ReleaseStatus
	loader  *SettingsLoader
}

// NewReleasesController creates a new ReleasesController.
func NewReleasesController(command commands.ReleaseStatus, loader *SettingsLoader) *ReleasesController {
	return &ReleasesController{command: command, loader: loader}
}

// GetBind returns the Cobra command metadata for the releases controller.
func (it *ReleasesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "releases",
		Short: "Report the latest release of each project",
		Long: `List the projects of the configured project groups with their latest
release and its progression through the lifecycle phases.`,
	}
}

// Execute runs the release status report.
func (it *ReleasesController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	channel, _ := cmd.Flags().GetString("channel")

	settings, err := it.loader.Load(ctx, cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	statuses, err := it.command.Execute(ctx, settings, commands.ReleaseStatusOptions{Channel: channel})
	if err != nil {
		logger.Errorf("Release status failed: %v", err)
		return
	}

	for _, group := range statuses {
		logger.Infof("%s", group.Group.Name)
		for _, status := range group.Projects {
			if status.Release == nil {
				logger.Infof("  %s: no releases", status.Project.Name)
				continue
			}
			logger.Infof("  %s: %s", status.Project.Name, status.Release.Version)
			for _, phase := range status.Progression {
				logger.Debugf("    %s: %s", phase.Name, phase.Progress)
			}
		}
	}
}

// AddFlags adds the releases-specific flags to the given Cobra command.
func (it *ReleasesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("channel", "", "Slack channel ID to post the report to")
}
