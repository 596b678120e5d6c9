package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/driftbot/internal/infrastructure/repositories"
)

// ReleaseStatus is the interface for the latest release report.
type ReleaseStatus interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		opts ReleaseStatusOptions,
	) ([]entities.ProjectGroupReleaseStatus, error)
}

// ReleaseStatusOptions holds runtime options for a single release report.
type ReleaseStatusOptions struct {
	Channel  string // If empty, the report is only computed, never posted
	ThreadTS string
}

// ReleaseStatusCommand reports the latest release of every project of the configured groups.
type ReleaseStatusCommand struct {
	registry *infraRepos.ClientRegistry
	now      func() time.Time
}

// NewReleaseStatusCommand creates a new ReleaseStatusCommand.
func NewReleaseStatusCommand(registry *infraRepos.ClientRegistry) *ReleaseStatusCommand {
	return &ReleaseStatusCommand{registry: registry, now: time.Now}
}

// Execute collects the release status and posts it when a channel is given.
func (it *ReleaseStatusCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ReleaseStatusOptions,
) ([]entities.ProjectGroupReleaseStatus, error) {
	if len(settings.Octopus.ProjectGroups) == 0 {
		return nil, errors.New("no project groups configured (octopus.project_groups)")
	}

	deployments, err := it.registry.Deployment(settings.Octopus)
	if err != nil {
		return nil, err
	}

	statuses, err := collectReleaseStatus(ctx, deployments, settings.Octopus.ProjectGroups)
	if err != nil {
		return nil, err
	}

	if len(statuses) == 0 {
		logger.Info("No projects found in the configured project groups")
		return statuses, nil
	}
	if opts.Channel == "" {
		return statuses, nil
	}

	notifications, err := it.registry.Notification(settings.Slack.NotifyToken)
	if err != nil {
		return statuses, err
	}

	result, err := notifications.Post(ctx, entities.Notification{
		Channel:      opts.Channel,
		Blocks:       entities.BuildReleaseStatusPayload(statuses, it.now()),
		FallbackText: entities.ReleaseStatusFallbackText,
		ThreadTS:     opts.ThreadTS,
	})
	if err != nil {
		return statuses, err
	}

	logger.Infof("Posted release status to %s (%s)", result.Channel, result.Timestamp)
	return statuses, nil
}

func collectReleaseStatus(
	ctx context.Context,
	deployments repositories.DeploymentRepository,
	refs []entities.ProjectGroupRef,
) ([]entities.ProjectGroupReleaseStatus, error) {
	groups, err := deployments.ListProjects(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	statuses := make([]entities.ProjectGroupReleaseStatus, 0, len(groups))
	for _, group := range groups {
		groupStatus := entities.ProjectGroupReleaseStatus{Group: group}

		for _, project := range group.Projects {
			release, releaseErr := deployments.LatestRelease(ctx, project)
			if releaseErr != nil {
				return nil, fmt.Errorf("failed to get latest release of %q: %w", project.Name, releaseErr)
			}

			status := entities.ProjectReleaseStatus{Project: project, Release: release}
			if release != nil {
				progression, progressionErr := deployments.ReleaseProgression(ctx, release.ID)
				if progressionErr != nil {
					return nil, fmt.Errorf("failed to get progression of release %q: %w", release.Version, progressionErr)
				}
				status.Progression = progression
			}

			groupStatus.Projects = append(groupStatus.Projects, status)
		}

		statuses = append(statuses, groupStatus)
	}

	return statuses, nil
}
