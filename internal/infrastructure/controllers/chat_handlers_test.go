//go:build unit

package controllers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/infrastructure/controllers"
	commanddoubles "github.com/rios0rios0/driftbot/test/domain/commanddoubles"
	doubles "github.com/rios0rios0/driftbot/test/infrastructure/repositorydoubles"
)

func chatMessage() entities.ChatMessage {
	return entities.ChatMessage{
		Channel:   "C123",
		User:      "U1",
		Text:      "driftbot step",
		Timestamp: "1700000000.000010",
		ThreadTS:  "1700000000.000001",
	}
}

func TestStepStatusHandlerHandle(t *testing.T) {
	t.Parallel()

	t.Run("should run the scan for the asking channel and mark the message done", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubStaleUsageCommand{}
		notifications := &doubles.SpyNotificationRepository{}
		settings := &entities.Settings{}
		handler := controllers.NewStepStatusHandler(command, settings, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, command.ExecuteCallCount)
		assert.Same(t, settings, command.LastSettings)
		assert.Equal(t, "C123", command.LastOpts.Channel)
		assert.Equal(t, "1700000000.000001", command.LastOpts.ThreadTS)
		assert.Equal(t, []string{"hourglass", "heavy_check_mark"}, notifications.AddedReactions())
		assert.Equal(t, entities.MessageRef{Channel: "C123", Timestamp: "1700000000.000010"},
			notifications.Reactions[0].Ref)
		assert.Empty(t, notifications.Replies)
	})

	t.Run("should echo Octopus errors and post no report", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubStaleUsageCommand{
			ExecuteErr: &entities.UpstreamError{API: entities.APIOctopus, Message: "Access denied"},
		}
		notifications := &doubles.SpyNotificationRepository{}
		handler := controllers.NewStepStatusHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.Error(t, err)
		require.Len(t, notifications.Replies, 1)
		assert.Equal(t, doubles.ReplyCall{
			Channel:  "C123",
			Text:     "Octopus Error: Access denied",
			ThreadTS: "1700000000.000001",
		}, notifications.Replies[0])
		assert.Empty(t, notifications.Posted)
		assert.Equal(t, []string{"hourglass", "warning"}, notifications.AddedReactions())
	})

	t.Run("should not echo transport errors", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubStaleUsageCommand{
			ExecuteErr: &entities.TransportError{API: entities.APIOctopus, StatusCode: 503},
		}
		notifications := &doubles.SpyNotificationRepository{}
		handler := controllers.NewStepStatusHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.Error(t, err)
		assert.Empty(t, notifications.Replies)
		assert.Equal(t, []string{"hourglass", "warning"}, notifications.AddedReactions())
	})

	t.Run("should keep going when reactions cannot be added", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubStaleUsageCommand{}
		notifications := &doubles.SpyNotificationRepository{ReactionErr: errors.New("missing_scope")}
		handler := controllers.NewStepStatusHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, command.ExecuteCallCount)
	})
}

func TestReleaseStatusHandlerHandle(t *testing.T) {
	t.Parallel()

	t.Run("should post the release status into the asking thread", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubReleaseStatusCommand{}
		notifications := &doubles.SpyNotificationRepository{}
		handler := controllers.NewReleaseStatusHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, command.ExecuteCallCount)
		assert.Equal(t, "C123", command.LastOpts.Channel)
		assert.Equal(t, "1700000000.000001", command.LastOpts.ThreadTS)
	})
}

func TestIncidentsHandlerHandle(t *testing.T) {
	t.Parallel()

	t.Run("should reply with the incidents summary", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubIncidentsCommand{Summary: "There are no open incidents on the production Slack channel"}
		notifications := &doubles.SpyNotificationRepository{}
		handler := controllers.NewIncidentsHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.NoError(t, err)
		require.Len(t, notifications.Replies, 1)
		assert.Equal(t, "There are no open incidents on the production Slack channel", notifications.Replies[0].Text)
		assert.Equal(t, "1700000000.000001", notifications.Replies[0].ThreadTS)
	})

	t.Run("should not reply when the summary fails", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubIncidentsCommand{ExecuteErr: errors.New("slack.production_channel is not configured")}
		notifications := &doubles.SpyNotificationRepository{}
		handler := controllers.NewIncidentsHandler(command, &entities.Settings{}, notifications)

		// when
		err := handler.Handle(context.Background(), chatMessage())

		// then
		require.Error(t, err)
		assert.Empty(t, notifications.Replies)
		assert.Equal(t, []string{"hourglass", "warning"}, notifications.AddedReactions())
	})
}
