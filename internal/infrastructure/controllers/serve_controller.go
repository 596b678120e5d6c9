package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
	infraRepos "github.com/rios0rios0/driftbot/internal/infrastructure/repositories"
)

const shutdownTimeout = 5 * time.Second

// ServeController handles the "serve" subcommand (chat bot mode).
type ServeController struct {
	staleUsage    commands.StaleUsage
	releaseStatus commands.ReleaseStatus
	incidents     commands.Incidents
	registry      *infraRepos.ClientRegistry
	loader        *SettingsLoader
}

// NewServeController creates a new ServeController.
func NewServeController(
	staleUsage commands.StaleUsage,
	releaseStatus commands.ReleaseStatus,
	incidents commands.Incidents,
	registry *infraRepos.ClientRegistry,
	loader *SettingsLoader,
) *ServeController {
	return &ServeController{
		staleUsage:    staleUsage,
		releaseStatus: releaseStatus,
		incidents:     incidents,
		registry:      registry,
		loader:        loader,
	}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Run the chat bot",
		Long: `Listen for chat messages addressed to the bot and answer the
"step", "release" and "incident" commands.

Health and Prometheus metrics are served on GET /healthz and GET /metrics.`,
	}
}

// Execute runs until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := it.loader.Load(ctx, cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	router, err := it.buildRouter(ctx, settings)
	if err != nil {
		logger.Error(err)
		return
	}

	source, err := it.registry.ChatSource(settings.Slack.BotToken, settings.Slack.AppToken)
	if err != nil {
		logger.Error(err)
		return
	}

	server := NewHTTPServer(settings.Server.Address)
	go func() {
		logger.Infof("Serving health and metrics on %s", settings.Server.Address)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Errorf("HTTP server failed: %v", serveErr)
		}
	}()

	logger.Infof("Listening for chat commands with prefixes %v", settings.Bot.Prefixes)
	if listenErr := source.Listen(ctx, router.Dispatch); listenErr != nil {
		logger.Errorf("Chat listener stopped: %v", listenErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warnf("HTTP server shutdown: %v", shutdownErr)
	}
	logger.Info("Bye")
}

func (it *ServeController) buildRouter(ctx context.Context, settings *entities.Settings) (*ChatRouter, error) {
	notifications, err := it.registry.Notification(settings.Slack.BotToken)
	if err != nil {
		return nil, err
	}

	botUserID, err := notifications.BotUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify the bot user: %w", err)
	}
	logger.Debugf("Answering mentions of %s", botUserID)

	return NewChatRouter(
		botUserID,
		settings.Bot.Prefixes,
		NewStepStatusHandler(it.staleUsage, settings, notifications),
		NewReleaseStatusHandler(it.releaseStatus, settings, notifications),
		NewIncidentsHandler(it.incidents, settings, notifications),
	), nil
}
