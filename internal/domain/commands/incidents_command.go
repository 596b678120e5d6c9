package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	infraRepos "github.com/rios0rios0/driftbot/internal/infrastructure/repositories"
)

// Incidents is the interface for the production incidents summary.
type Incidents interface {
	Execute(ctx context.Context, settings *entities.Settings) (string, error)
}

// IncidentsCommand reads the open incidents off the production channel topic.
type IncidentsCommand struct {
	registry *infraRepos.ClientRegistry
}

// NewIncidentsCommand creates a new IncidentsCommand.
func NewIncidentsCommand(registry *infraRepos.ClientRegistry) *IncidentsCommand {
	return &IncidentsCommand{registry: registry}
}

// Execute returns a one-line summary of the production channel incidents.
func (it *IncidentsCommand) Execute(ctx context.Context, settings *entities.Settings) (string, error) {
	if settings.Slack.ProductionChannel == "" {
		return "", errors.New("slack.production_channel is not configured")
	}

	notifications, err := it.registry.Notification(settings.Slack.BotToken)
	if err != nil {
		return "", err
	}

	topic, err := notifications.ChannelTopic(ctx, settings.Slack.ProductionChannel)
	if err != nil {
		return "", fmt.Errorf("failed to read production channel topic: %w", err)
	}

	return entities.DescribeIncidents(topic), nil
}
