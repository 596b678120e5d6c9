//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
	doubles "github.com/rios0rios0/driftbot/test/infrastructure/repositorydoubles"
)

func releaseFixture() *doubles.SpyDeploymentRepository {
	billing := entities.Project{ID: "Projects-10", Name: "Billing", Slug: "billing"}
	ledger := entities.Project{ID: "Projects-11", Name: "Ledger", Slug: "ledger"}

	return &doubles.SpyDeploymentRepository{
		ProjectGroups: []entities.ProjectGroup{
			{ID: "1", Name: "Payments", Projects: []entities.Project{billing, ledger}},
		},
		Releases: map[string]*entities.Release{
			"Projects-10": {ID: "Releases-4", Version: "1.10.0"},
		},
		Progressions: map[string][]entities.PhaseProgress{
			"Releases-4": {{Name: "Production", Progress: "Complete"}},
		},
	}
}

func TestReleaseStatusCommandExecute(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("should collect the latest release of every project and post it", func(t *testing.T) {
		t.Parallel()

		// given
		deployments := releaseFixture()
		notifications := &doubles.SpyNotificationRepository{}
		command := commands.NewReleaseStatusCommandAt(
			commands.NewReleaseStatusCommand(newRegistry(deployments, notifications)), now,
		)
		settings := newSettings()
		settings.Octopus.ProjectGroups = []entities.ProjectGroupRef{{ID: "1", Name: "Payments"}}

		// when
		statuses, err := command.Execute(context.Background(), settings, commands.ReleaseStatusOptions{Channel: "C123"})

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		require.Len(t, statuses[0].Projects, 2)
		assert.Equal(t, "1.10.0", statuses[0].Projects[0].Release.Version)
		assert.Equal(t, []entities.PhaseProgress{{Name: "Production", Progress: "Complete"}},
			statuses[0].Projects[0].Progression)
		assert.Nil(t, statuses[0].Projects[1].Release)
		assert.Equal(t, settings.Octopus.ProjectGroups, deployments.RequestedGroups)

		require.Len(t, notifications.Posted, 1)
		assert.Equal(t, entities.ReleaseStatusFallbackText, notifications.Posted[0].FallbackText)
		assert.Equal(t, "C123", notifications.Posted[0].Channel)
	})

	t.Run("should fail when no project group is configured", func(t *testing.T) {
		t.Parallel()

		// given
		notifications := &doubles.SpyNotificationRepository{}
		command := commands.NewReleaseStatusCommand(newRegistry(releaseFixture(), notifications))

		// when
		_, err := command.Execute(context.Background(), newSettings(), commands.ReleaseStatusOptions{Channel: "C123"})

		// then
		require.Error(t, err)
		assert.Empty(t, notifications.Posted)
	})

	t.Run("should not post when no channel is given", func(t *testing.T) {
		t.Parallel()

		// given
		notifications := &doubles.SpyNotificationRepository{}
		command := commands.NewReleaseStatusCommand(newRegistry(releaseFixture(), notifications))
		settings := newSettings()
		settings.Octopus.ProjectGroups = []entities.ProjectGroupRef{{ID: "1", Name: "Payments"}}

		// when
		statuses, err := command.Execute(context.Background(), settings, commands.ReleaseStatusOptions{})

		// then
		require.NoError(t, err)
		assert.Len(t, statuses, 1)
		assert.Empty(t, notifications.Posted)
	})
}

func TestCollectReleaseStatus(t *testing.T) {
	t.Parallel()

	t.Run("should stop at the first failing release lookup", func(t *testing.T) {
		t.Parallel()

		// given
		deployments := releaseFixture()
		deployments.LatestReleaseErr = errors.New("timeout")

		// when
		_, err := commands.CollectReleaseStatus(context.Background(), deployments,
			[]entities.ProjectGroupRef{{ID: "1", Name: "Payments"}})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"Billing"`)
	})

	t.Run("should skip the progression of projects without releases", func(t *testing.T) {
		t.Parallel()

		// given
		deployments := releaseFixture()
		deployments.Releases = nil
		deployments.ProgressionErr = errors.New("must not be called")

		// when
		statuses, err := commands.CollectReleaseStatus(context.Background(), deployments,
			[]entities.ProjectGroupRef{{ID: "1", Name: "Payments"}})

		// then
		require.NoError(t, err)
		for _, status := range statuses[0].Projects {
			assert.Nil(t, status.Release)
		}
	})
}
