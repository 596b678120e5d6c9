//go:build unit

package slack_test

import (
	"testing"

	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	slackrepo "github.com/rios0rios0/driftbot/internal/infrastructure/repositories/slack"
)

func TestToChatMessage(t *testing.T) {
	t.Parallel()

	t.Run("should convert a user message", func(t *testing.T) {
		t.Parallel()

		// given
		event := &slackevents.MessageEvent{
			Channel:         "C123",
			User:            "U1",
			Text:            "driftbot step",
			TimeStamp:       "1700000000.000001",
			ThreadTimeStamp: "1699999999.000001",
		}

		// when
		message, ok := slackrepo.ToChatMessage(event)

		// then
		assert.True(t, ok)
		assert.Equal(t, entities.ChatMessage{
			Channel:   "C123",
			User:      "U1",
			Text:      "driftbot step",
			Timestamp: "1700000000.000001",
			ThreadTS:  "1699999999.000001",
		}, message)
	})

	t.Run("should convert an app mention", func(t *testing.T) {
		t.Parallel()

		// given
		event := &slackevents.AppMentionEvent{
			Channel:   "C123",
			User:      "U1",
			Text:      "<@U0BOT> releases",
			TimeStamp: "1700000000.000002",
		}

		// when
		message, ok := slackrepo.ToChatMessage(event)

		// then
		assert.True(t, ok)
		assert.Equal(t, "<@U0BOT> releases", message.Text)
		assert.Equal(t, "1700000000.000002", message.Timestamp)
	})

	t.Run("should drop messages posted by bots", func(t *testing.T) {
		t.Parallel()

		// given
		event := &slackevents.MessageEvent{Channel: "C123", BotID: "B1", Text: "driftbot step"}

		// when
		_, ok := slackrepo.ToChatMessage(event)

		// then
		assert.False(t, ok)
	})

	t.Run("should drop message subtypes such as edits", func(t *testing.T) {
		t.Parallel()

		// given
		event := &slackevents.MessageEvent{Channel: "C123", SubType: "message_changed"}

		// when
		_, ok := slackrepo.ToChatMessage(event)

		// then
		assert.False(t, ok)
	})

	t.Run("should ignore other event types", func(t *testing.T) {
		t.Parallel()

		// given
		event := &slackevents.ReactionAddedEvent{Reaction: "eyes"}

		// when
		_, ok := slackrepo.ToChatMessage(event)

		// then
		assert.False(t, ok)
	})
}
