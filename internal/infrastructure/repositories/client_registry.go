package repositories

import (
	"context"
	"errors"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// DeploymentFactory creates a DeploymentRepository for the given API settings.
type DeploymentFactory func(settings entities.OctopusSettings) domainRepos.DeploymentRepository

// NotificationFactory creates a NotificationRepository authenticated with token.
type NotificationFactory func(token string) domainRepos.NotificationRepository

// ChatSourceFactory creates a ChatEventSource from a bot token and an app-level token.
type ChatSourceFactory func(botToken, appToken string) domainRepos.ChatEventSource

// ParameterFactory creates a ParameterRepository for an AWS region.
type ParameterFactory func(ctx context.Context, region string) (domainRepos.ParameterRepository, error)

// ClientRegistry holds the factories of every external API client.
// Clients need secrets only known once the settings are loaded, so they are built on demand.
type ClientRegistry struct {
	deployment   DeploymentFactory
	notification NotificationFactory
	chatSource   ChatSourceFactory
	parameter    ParameterFactory
}

// NewClientRegistry creates an empty client registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{}
}

// RegisterDeployment sets the deployment API client factory.
func (r *ClientRegistry) RegisterDeployment(factory DeploymentFactory) {
	r.deployment = factory
}

// RegisterNotification sets the chat API client factory.
func (r *ClientRegistry) RegisterNotification(factory NotificationFactory) {
	r.notification = factory
}

// RegisterChatSource sets the inbound chat event source factory.
func (r *ClientRegistry) RegisterChatSource(factory ChatSourceFactory) {
	r.chatSource = factory
}

// RegisterParameter sets the parameter store client factory.
func (r *ClientRegistry) RegisterParameter(factory ParameterFactory) {
	r.parameter = factory
}

// Deployment returns a deployment API client configured by settings.
func (r *ClientRegistry) Deployment(settings entities.OctopusSettings) (domainRepos.DeploymentRepository, error) {
	if r.deployment == nil {
		return nil, errors.New("no deployment client registered")
	}
	return r.deployment(settings), nil
}

// Notification returns a chat API client authenticated with token.
func (r *ClientRegistry) Notification(token string) (domainRepos.NotificationRepository, error) {
	if r.notification == nil {
		return nil, errors.New("no notification client registered")
	}
	if token == "" {
		return nil, errors.New("notification token is empty")
	}
	return r.notification(token), nil
}

// ChatSource returns an inbound message source.
func (r *ClientRegistry) ChatSource(botToken, appToken string) (domainRepos.ChatEventSource, error) {
	if r.chatSource == nil {
		return nil, errors.New("no chat event source registered")
	}
	if appToken == "" {
		return nil, errors.New("slack.app_token is required to listen for chat messages")
	}
	return r.chatSource(botToken, appToken), nil
}

// Parameter returns a parameter store client for region.
func (r *ClientRegistry) Parameter(ctx context.Context, region string) (domainRepos.ParameterRepository, error) {
	if r.parameter == nil {
		return nil, errors.New("no parameter store client registered")
	}
	return r.parameter(ctx, region)
}
