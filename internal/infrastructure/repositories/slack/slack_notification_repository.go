package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/slack-go/slack"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
	"github.com/rios0rios0/driftbot/internal/infrastructure/telemetry"
)

// NotificationRepository implements repositories.NotificationRepository with the Slack Web API.
type NotificationRepository struct {
	client *slack.Client
}

// NewNotificationRepository creates a Slack client authenticated with token.
func NewNotificationRepository(token string) repositories.NotificationRepository {
	return &NotificationRepository{client: slack.New(token)}
}

// NewNotificationRepositoryWithOptions creates a Slack client with extra client options (e.g. a custom API URL).
func NewNotificationRepositoryWithOptions(token string, options ...slack.Option) *NotificationRepository {
	return &NotificationRepository{client: slack.New(token, options...)}
}

// Post sends a block message with its plain-text fallback, threaded when ThreadTS is set.
func (r *NotificationRepository) Post(
	ctx context.Context,
	notification entities.Notification,
) (entities.PostResult, error) {
	options := []slack.MsgOption{
		slack.MsgOptionText(notification.FallbackText, false),
		slack.MsgOptionBlocks(notification.Blocks...),
	}
	if notification.ThreadTS != "" {
		options = append(options, slack.MsgOptionTS(notification.ThreadTS))
	}

	channel, timestamp, err := r.client.PostMessageContext(ctx, notification.Channel, options...)
	if err != nil {
		return entities.PostResult{}, classify(notification.Channel, err)
	}
	record(http.StatusOK)

	return entities.PostResult{Channel: channel, Timestamp: timestamp}, nil
}

// Reply posts a plain-text message.
func (r *NotificationRepository) Reply(ctx context.Context, channel, text, threadTS string) error {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}

	if _, _, err := r.client.PostMessageContext(ctx, channel, options...); err != nil {
		return classify(channel, err)
	}
	record(http.StatusOK)
	return nil
}

func (r *NotificationRepository) AddReaction(ctx context.Context, ref entities.MessageRef, name string) error {
	if err := r.client.AddReactionContext(ctx, name, slack.NewRefToMessage(ref.Channel, ref.Timestamp)); err != nil {
		return classify(ref.Channel, err)
	}
	record(http.StatusOK)
	return nil
}

func (r *NotificationRepository) RemoveReaction(ctx context.Context, ref entities.MessageRef, name string) error {
	if err := r.client.RemoveReactionContext(ctx, name, slack.NewRefToMessage(ref.Channel, ref.Timestamp)); err != nil {
		return classify(ref.Channel, err)
	}
	record(http.StatusOK)
	return nil
}

// ChannelTopic returns the topic of a conversation.
func (r *NotificationRepository) ChannelTopic(ctx context.Context, channel string) (string, error) {
	info, err := r.client.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channel})
	if err != nil {
		return "", classify(channel, err)
	}
	record(http.StatusOK)
	return info.Topic.Value, nil
}

// BotUserID returns the user the token belongs to, as seen in "<@U...>" mentions.
func (r *NotificationRepository) BotUserID(ctx context.Context) (string, error) {
	identity, err := r.client.AuthTestContext(ctx)
	if err != nil {
		return "", classify("", err)
	}
	record(http.StatusOK)
	return identity.UserID, nil
}

// classify maps Slack client errors onto the domain error taxonomy.
func classify(channel string, err error) error {
	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		record(statusErr.Code)
		return &entities.TransportError{API: entities.APISlack, StatusCode: statusErr.Code, Body: statusErr.Status}
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		record(http.StatusOK)
		return &entities.NotificationError{Channel: channel, Reason: slackErr.Err}
	}

	return fmt.Errorf("slack request failed: %w", err)
}

func record(status int) {
	telemetry.UpstreamRequestsTotal.WithLabelValues(entities.APISlack, strconv.Itoa(status)).Inc()
}
