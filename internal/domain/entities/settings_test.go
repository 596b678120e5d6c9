//go:build unit

package entities_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "driftbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should apply defaults to a minimal configuration", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
slack:
  bot_token: xoxb-bot
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://octopus.com", settings.Octopus.URL)
		assert.Equal(t, "Spaces-1", settings.Octopus.Space)
		assert.Equal(t, "https://octopus.com/app#/Spaces-1/", settings.Octopus.WebURL)
		assert.Equal(t, 4, settings.Octopus.Concurrency)
		assert.Equal(t, 30*time.Second, settings.Octopus.Timeout)
		assert.Equal(t, entities.LatestReleaseNewest, settings.Octopus.LatestRelease)
		assert.Equal(t, "xoxb-bot", settings.Slack.NotifyToken)
		assert.Equal(t, []string{"driftbot"}, settings.Bot.Prefixes)
		assert.Equal(t, ":8080", settings.Server.Address)
	})

	t.Run("should keep explicit values and trim the API URL", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  url: https://deploy.example.com/
  space: Spaces-2
  api_key: API-KEY
  concurrency: 8
  timeout: 10s
  project_groups:
    - id: "21"
      name: Payments
slack:
  bot_token: xoxb-bot
  notify_token: xoxb-notify
bot:
  prefixes: [drift, db]
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://deploy.example.com", settings.Octopus.URL)
		assert.Equal(t, "https://deploy.example.com/app#/Spaces-2/", settings.Octopus.WebURL)
		assert.Equal(t, 8, settings.Octopus.Concurrency)
		assert.Equal(t, 10*time.Second, settings.Octopus.Timeout)
		assert.Equal(t, []entities.ProjectGroupRef{{ID: "21", Name: "Payments"}}, settings.Octopus.ProjectGroups)
		assert.Equal(t, "xoxb-notify", settings.Slack.NotifyToken)
		assert.Equal(t, []string{"drift", "db"}, settings.Bot.Prefixes)
	})

	t.Run("should add the missing trailing slash to the web URL", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  web_url: https://deploy.example.com/app#/Spaces-2
  api_key: API-KEY
slack:
  bot_token: xoxb-bot
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://deploy.example.com/app#/Spaces-2/", settings.Octopus.WebURL)
	})

	t.Run("should accept the highest semantic version release mode", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
  latest_release: highest_semver
slack:
  bot_token: xoxb-bot
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.LatestReleaseHighestSemver, settings.Octopus.LatestRelease)
	})

	t.Run("should fail on an unknown release mode", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
  latest_release: alphabetical
slack:
  bot_token: xoxb-bot
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "octopus.latest_release")
	})

	t.Run("should expand environment variables in secrets", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("DRIFTBOT_TEST_API_KEY", "from-env")
		path := writeConfig(t, `
octopus:
  api_key: ${DRIFTBOT_TEST_API_KEY}
slack:
  bot_token: xoxb-bot
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "from-env", settings.Octopus.APIKey)
	})

	t.Run("should read secrets from files", func(t *testing.T) {
		t.Parallel()

		// given
		tokenFile := filepath.Join(t.TempDir(), "bot.token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  xoxb-file  \n"), 0o600))
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
slack:
  bot_token: `+tokenFile+`
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "xoxb-file", settings.Slack.BotToken)
	})

	t.Run("should fail when the API key is missing", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
slack:
  bot_token: xoxb-bot
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "octopus.api_key is required")
	})

	t.Run("should fail when the bot token is missing", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "slack.bot_token is required")
	})

	t.Run("should fail when a project group has no id", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, `
octopus:
  api_key: API-KEY
  project_groups:
    - name: Payments
slack:
  bot_token: xoxb-bot
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "octopus.project_groups[0].id is required")
	})

	t.Run("should require a region for parameter store secrets", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("AWS_REGION", "")
		t.Setenv("AWS_DEFAULT_REGION", "")
		path := writeConfig(t, `
octopus:
  api_key: ssm:/driftbot/octopus-api-key
slack:
  bot_token: xoxb-bot
`)

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "aws.region is required")
	})

	t.Run("should fail when the file does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestSettingsResolveParameters(t *testing.T) {
	t.Parallel()

	t.Run("should replace parameter store references with their values", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Octopus: entities.OctopusSettings{APIKey: "ssm:/driftbot/octopus"},
			Slack:   entities.SlackSettings{BotToken: "ssm:/driftbot/slack", AppToken: "xapp-inline"},
		}
		values := map[string]string{
			"/driftbot/octopus": "API-KEY",
			"/driftbot/slack":   "xoxb-bot",
		}
		var requested []string
		lookup := func(_ context.Context, name string) (string, error) {
			requested = append(requested, name)
			return values[name], nil
		}

		// when
		err := settings.ResolveParameters(context.Background(), lookup)

		// then
		require.NoError(t, err)
		assert.Equal(t, "API-KEY", settings.Octopus.APIKey)
		assert.Equal(t, "xoxb-bot", settings.Slack.BotToken)
		assert.Equal(t, "xapp-inline", settings.Slack.AppToken)
		assert.Equal(t, "xoxb-bot", settings.Slack.NotifyToken)
		assert.Equal(t, []string{"/driftbot/octopus", "/driftbot/slack"}, requested)
		assert.False(t, settings.NeedsParameters())
	})

	t.Run("should return the lookup error", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{Octopus: entities.OctopusSettings{APIKey: "ssm:/missing"}}
		lookup := func(_ context.Context, _ string) (string, error) {
			return "", errors.New("parameter not found")
		}

		// when
		err := settings.ResolveParameters(context.Background(), lookup)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `failed to resolve parameter "/missing"`)
	})
}

func TestSettingsNeedsParameters(t *testing.T) {
	t.Parallel()

	t.Run("should be false when every secret is inline", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{Slack: entities.SlackSettings{BotToken: "xoxb-bot"}}

		// when
		needs := settings.NeedsParameters()

		// then
		assert.False(t, needs)
	})

	t.Run("should be true when a secret references the parameter store", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{Slack: entities.SlackSettings{AppToken: "ssm:/driftbot/app"}}

		// when
		needs := settings.NeedsParameters()

		// then
		assert.True(t, needs)
	})
}
