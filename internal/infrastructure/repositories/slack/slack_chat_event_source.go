package slack

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

// ChatEventSource receives messages over a Slack socket mode connection.
type ChatEventSource struct {
	client *socketmode.Client
}

// NewChatEventSource creates a socket mode client; appToken must be an app-level ("xapp-") token.
func NewChatEventSource(botToken, appToken string) repositories.ChatEventSource {
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &ChatEventSource{client: socketmode.New(api)}
}

// Listen dispatches every user message to handle, each on its own goroutine, until ctx is done.
func (s *ChatEventSource) Listen(
	ctx context.Context,
	handle func(ctx context.Context, message entities.ChatMessage),
) error {
	runErr := make(chan error, 1)
	go func() {
		runErr <- s.client.RunContext(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-runErr:
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case event, ok := <-s.client.Events:
			if !ok {
				return nil
			}
			s.dispatch(ctx, event, handle)
		}
	}
}

func (s *ChatEventSource) dispatch(
	ctx context.Context,
	event socketmode.Event,
	handle func(ctx context.Context, message entities.ChatMessage),
) {
	switch event.Type {
	case socketmode.EventTypeConnecting:
		logger.Info("Connecting to Slack with socket mode...")
	case socketmode.EventTypeConnected:
		logger.Info("Connected to Slack with socket mode")
	case socketmode.EventTypeConnectionError:
		logger.Warnf("Slack socket mode connection failed, retrying: %v", event.Data)
	case socketmode.EventTypeEventsAPI:
		if event.Request != nil {
			s.client.Ack(*event.Request)
		}

		apiEvent, ok := event.Data.(slackevents.EventsAPIEvent)
		if !ok || apiEvent.Type != slackevents.CallbackEvent {
			return
		}

		message, ok := toChatMessage(apiEvent.InnerEvent.Data)
		if !ok {
			return
		}
		go safeHandle(ctx, message, handle)
	default:
		logger.Debugf("Ignoring socket mode event %q", event.Type)
	}
}

// toChatMessage keeps plain user messages and mentions; bot posts, edits and joins are dropped.
func toChatMessage(data any) (entities.ChatMessage, bool) {
	switch event := data.(type) {
	case *slackevents.MessageEvent:
		if event.BotID != "" || event.SubType != "" {
			return entities.ChatMessage{}, false
		}
		return entities.ChatMessage{
			Channel:   event.Channel,
			User:      event.User,
			Text:      event.Text,
			Timestamp: event.TimeStamp,
			ThreadTS:  event.ThreadTimeStamp,
		}, true
	case *slackevents.AppMentionEvent:
		if event.BotID != "" {
			return entities.ChatMessage{}, false
		}
		return entities.ChatMessage{
			Channel:   event.Channel,
			User:      event.User,
			Text:      event.Text,
			Timestamp: event.TimeStamp,
			ThreadTS:  event.ThreadTimeStamp,
		}, true
	default:
		return entities.ChatMessage{}, false
	}
}

func safeHandle(
	ctx context.Context,
	message entities.ChatMessage,
	handle func(ctx context.Context, message entities.ChatMessage),
) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Recovered panic while handling message %s in %s: %v", message.Timestamp, message.Channel, r)
		}
	}()
	handle(ctx, message)
}
