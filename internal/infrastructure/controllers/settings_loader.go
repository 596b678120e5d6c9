package controllers

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	infraRepos "github.com/rios0rios0/driftbot/internal/infrastructure/repositories"
)

// SettingsLoader finds, parses and completes the configuration shared by every controller.
type SettingsLoader struct {
	registry *infraRepos.ClientRegistry
}

// NewSettingsLoader creates a new SettingsLoader.
func NewSettingsLoader(registry *infraRepos.ClientRegistry) *SettingsLoader {
	return &SettingsLoader{registry: registry}
}

// Load reads the file given by --config (or the first one auto-detected) and resolves
// parameter store secrets.
func (it *SettingsLoader) Load(ctx context.Context, cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create driftbot.yaml", err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose || settings.Bot.Debug || os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	if settings.NeedsParameters() {
		parameters, paramErr := it.registry.Parameter(ctx, settings.AWS.Region)
		if paramErr != nil {
			return nil, paramErr
		}
		if resolveErr := settings.ResolveParameters(ctx, parameters.GetParameter); resolveErr != nil {
			return nil, resolveErr
		}
	}

	return settings, nil
}
