package repositories

import (
	"go.uber.org/dig"

	octopusRepo "github.com/rios0rios0/driftbot/internal/infrastructure/repositories/octopus"
	slackRepo "github.com/rios0rios0/driftbot/internal/infrastructure/repositories/slack"
	ssmRepo "github.com/rios0rios0/driftbot/internal/infrastructure/repositories/ssm"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register client registry with all external API factories
	return container.Provide(func() *ClientRegistry {
		reg := NewClientRegistry()
		reg.RegisterDeployment(octopusRepo.NewDeploymentRepository)
		reg.RegisterNotification(slackRepo.NewNotificationRepository)
		reg.RegisterChatSource(slackRepo.NewChatEventSource)
		reg.RegisterParameter(ssmRepo.NewParameterRepository)
		return reg
	})
}
