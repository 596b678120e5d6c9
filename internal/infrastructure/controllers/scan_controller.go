package controllers

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

// ScanController handles the "scan" subcommand (one-shot drift report).
type ScanController struct {
	command commands.StaleUsage
	loader  *SettingsLoader
}

// NewScanController creates a new ScanController.
func NewScanController(command commands.StaleUsage, loader *SettingsLoader) *ScanController {
	return &ScanController{command: command, loader: loader}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan",
		Short: "Report projects using outdated step templates",
		Long: `Scan every step template of the Octopus space and list the projects
pinned to an older version than the template's current one.

Community templates are skipped. When --channel is given, the report is
posted to that Slack channel; nothing is posted when there is no drift.`,
	}
}

// Execute runs one drift scan.
func (it *ScanController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	channel, _ := cmd.Flags().GetString("channel")
	thread, _ := cmd.Flags().GetString("thread")

	settings, err := it.loader.Load(ctx, cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	report, err := it.command.Execute(ctx, settings, commands.StaleUsageOptions{
		Channel:  channel,
		ThreadTS: thread,
	})
	if err != nil {
		var upstreamErr *entities.UpstreamError
		if errors.As(err, &upstreamErr) {
			logger.Errorf("Octopus Error: %s", upstreamErr.Message)
			return
		}
		logger.Errorf("Scan failed: %v", err)
		return
	}

	for _, group := range report.Groups {
		logger.Infof("%s (v%d) %s", group.TemplateName, group.Version, group.TemplateURL)
		for _, usage := range group.Usages {
			logger.Infof("  %s is using v%d", usage.ProjectName, usage.Version)
		}
	}
}

// AddFlags adds the scan-specific flags to the given Cobra command.
func (it *ScanController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("channel", "", "Slack channel ID to post the report to")
	cmd.Flags().String("thread", "", "Post the report as a reply to this thread timestamp")
}
