package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/driftbot/internal/infrastructure/repositories"
	"github.com/rios0rios0/driftbot/internal/infrastructure/telemetry"
)

// StaleUsage is the interface for the step template drift report.
type StaleUsage interface {
	Execute(ctx context.Context, settings *entities.Settings, opts StaleUsageOptions) (entities.StaleUsageReport, error)
}

// StaleUsageOptions holds runtime options for a single drift report.
type StaleUsageOptions struct {
	Channel  string // If empty, the report is only computed, never posted
	ThreadTS string // If set, the report is posted as a thread reply
}

// ScanOptions tunes ScanForStaleUsage.
type ScanOptions struct {
	WebURL      string // base of the template usage links
	Concurrency int    // maximum usage fetches in flight
}

// StaleUsageCommand scans step templates for outdated consumers and posts the report:
// list templates -> fetch usage per template -> keep stale usages -> build blocks -> post.
type StaleUsageCommand struct {
	registry *infraRepos.ClientRegistry
}

// NewStaleUsageCommand creates a new StaleUsageCommand.
func NewStaleUsageCommand(registry *infraRepos.ClientRegistry) *StaleUsageCommand {
	return &StaleUsageCommand{registry: registry}
}

// Execute runs one scan. Nothing is posted when no template has stale usages, or when
// any stage fails: the report is either complete or absent.
func (it *StaleUsageCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts StaleUsageOptions,
) (entities.StaleUsageReport, error) {
	deployments, err := it.registry.Deployment(settings.Octopus)
	if err != nil {
		return entities.StaleUsageReport{}, err
	}

	groups, err := ScanForStaleUsage(ctx, deployments, ScanOptions{
		WebURL:      settings.Octopus.WebURL,
		Concurrency: settings.Octopus.Concurrency,
	})
	if err != nil {
		telemetry.ScansTotal.WithLabelValues(telemetry.ResultFailure).Inc()
		return entities.StaleUsageReport{}, err
	}

	report := entities.StaleUsageReport{Groups: groups}
	telemetry.StaleUsages.Set(float64(countUsages(groups)))

	if len(groups) == 0 {
		logger.Info("Every project is using the latest step template versions")
		telemetry.ScansTotal.WithLabelValues(telemetry.ResultEmpty).Inc()
		return report, nil
	}

	logger.Infof("Found %d step templates with %d outdated usages", len(groups), countUsages(groups))
	if opts.Channel == "" {
		telemetry.ScansTotal.WithLabelValues(telemetry.ResultSuccess).Inc()
		return report, nil
	}

	notifications, err := it.registry.Notification(settings.Slack.NotifyToken)
	if err != nil {
		telemetry.ScansTotal.WithLabelValues(telemetry.ResultFailure).Inc()
		return report, err
	}

	result, err := notifications.Post(ctx, entities.Notification{
		Channel:      opts.Channel,
		Blocks:       entities.BuildStaleUsagePayload(groups),
		FallbackText: entities.StaleUsageFallbackText,
		ThreadTS:     opts.ThreadTS,
	})
	if err != nil {
		telemetry.ScansTotal.WithLabelValues(telemetry.ResultFailure).Inc()
		return report, err
	}

	logger.Infof("Posted step template report to %s (%s)", result.Channel, result.Timestamp)
	telemetry.ScansTotal.WithLabelValues(telemetry.ResultSuccess).Inc()
	report.Posted = true
	report.Post = result
	return report, nil
}

// ScanForStaleUsage returns, in template order, one group per non-community template
// that has at least one consumer pinned below its current version.
//
// Usage lists are fetched concurrently; the first failure cancels the remaining
// fetches and fails the whole scan.
func ScanForStaleUsage(
	ctx context.Context,
	deployments repositories.DeploymentRepository,
	opts ScanOptions,
) ([]entities.StaleUsageGroup, error) {
	templates, err := deployments.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list step templates: %w", err)
	}

	tracked := make([]entities.Template, 0, len(templates))
	for _, template := range templates {
		if template.Community {
			logger.Debugf("Skipping community step template %q", template.Name)
			continue
		}
		tracked = append(tracked, template)
	}

	usages := make([][]entities.UsageRecord, len(tracked))
	fetches, fetchCtx := errgroup.WithContext(ctx)
	fetches.SetLimit(max(1, opts.Concurrency))

	for i, template := range tracked {
		fetches.Go(func() error {
			records, usageErr := deployments.ListUsage(fetchCtx, template.UsageRef)
			if usageErr != nil {
				return fmt.Errorf("failed to list usage of step template %q: %w", template.Name, usageErr)
			}
			usages[i] = records
			return nil
		})
	}

	if waitErr := fetches.Wait(); waitErr != nil {
		return nil, waitErr
	}

	var groups []entities.StaleUsageGroup
	for i, template := range tracked {
		records := usages[i]
		for j := range records {
			if records[j].TemplateID == "" {
				records[j].TemplateID = template.ID
			}
		}

		staleGroup, stale := entities.NewStaleUsageGroup(
			template,
			records,
			entities.TemplateUsageURL(opts.WebURL, template.ID),
		)
		if !stale {
			continue
		}

		logger.Debugf("Step template %q (v%d) has %d outdated usages",
			template.Name, template.Version, len(staleGroup.Usages))
		groups = append(groups, staleGroup)
	}

	return groups, nil
}

func countUsages(groups []entities.StaleUsageGroup) int {
	total := 0
	for _, group := range groups {
		total += len(group.Usages)
	}
	return total
}
